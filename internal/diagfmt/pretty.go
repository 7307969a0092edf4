package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"drift/internal/diag"
	"drift/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	severityColor := func(sev diag.Severity) *color.Color {
		switch sev {
		case diag.SevError:
			return color.New(color.FgRed, color.Bold)
		case diag.SevWarning:
			return color.New(color.FgYellow, color.Bold)
		default:
			return color.New(color.FgCyan)
		}
	}

	for _, d := range bag.Items() {
		head := severityColor(d.Severity)
		head.DisableColor()
		if opts.Color {
			head.EnableColor()
		}

		fmt.Fprintf(w, "%s: %s %s: %s\n",
			formatLocation(fs, d.Primary, opts.PathMode),
			head.Sprint(strings.ToUpper(d.Severity.String())),
			d.Code, d.Message)

		if opts.ShowSource {
			writeSourceLine(w, fs, d.Primary)
		}
		if opts.ShowNotes {
			for _, note := range d.Notes {
				fmt.Fprintf(w, "  note: %s: %s\n",
					formatLocation(fs, note.Span, opts.PathMode), note.Msg)
			}
		}
	}
}

func formatLocation(fs *source.FileSet, span source.Span, mode PathMode) string {
	if fs == nil || fs.Len() == 0 || int(span.File) >= fs.Len() {
		return "<unknown>"
	}
	f := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, mode), start.Line, start.Col)
}

// writeSourceLine prints the first line of the span with a caret underline.
func writeSourceLine(w io.Writer, fs *source.FileSet, span source.Span) {
	if fs == nil || fs.Len() == 0 || int(span.File) >= fs.Len() || span.Empty() {
		return
	}
	f := fs.Get(span.File)
	start, end := fs.Resolve(span)
	line := f.GetLine(start.Line)
	if line == "" {
		return
	}

	fmt.Fprintf(w, "  %s\n", line)

	// Подчёркивание не выходит за конец строки.
	underline := 1
	if end.Line == start.Line && end.Col > start.Col {
		underline = int(end.Col - start.Col)
	}
	maxLen := len(line) - int(start.Col) + 1
	if underline > maxLen {
		underline = maxLen
	}
	if underline < 1 {
		underline = 1
	}
	fmt.Fprintf(w, "  %s^%s\n",
		strings.Repeat(" ", int(start.Col)-1),
		strings.Repeat("~", underline-1))
}
