package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"drift/internal/backend/debuginfo"
	"drift/internal/source"
)

// ScopesInput is one resolved function ready for rendering.
type ScopesInput struct {
	Name      string
	Recorder  *debuginfo.Recorder
	Table     []debuginfo.ScopeRef // MIR index -> scope ref
	NodeCount int                  // AST nodes assigned a scope
	FromCache bool
}

// ScopesPretty renders the created scope tree of one function:
//
//	fn main (7 nodes)
//	#1 function @ main.dr:1
//	└── #2 lexical @ main.dr:1:11
//	    └── #3 lexical @ main.dr:3:9
func ScopesPretty(w io.Writer, in ScopesInput, fs *source.FileSet, opts ScopesOpts) {
	header := color.New(color.Bold)
	dim := color.New(color.Faint)
	header.DisableColor()
	dim.DisableColor()
	if opts.Color {
		header.EnableColor()
		dim.EnableColor()
	}

	suffix := ""
	if in.NodeCount > 0 {
		suffix = fmt.Sprintf(" (%d nodes)", in.NodeCount)
	}
	if in.FromCache {
		suffix += dim.Sprint(" [cached]")
	}
	fmt.Fprintf(w, "%s%s\n", header.Sprintf("fn %s", in.Name), suffix)

	if in.Recorder == nil || in.Recorder.Len() == 0 {
		fmt.Fprintln(w, dim.Sprint("  no debug scopes"))
		return
	}

	for _, root := range in.Recorder.Roots() {
		writeScopeNode(w, in.Recorder, fs, opts, root, "", true, true)
	}

	if opts.ShowTable && len(in.Table) > 0 {
		fmt.Fprintln(w, "mir scopes:")
		width := len(fmt.Sprintf("%d", len(in.Table)-1))
		for i, ref := range in.Table {
			label := dim.Sprint("-")
			if ref.IsValid() {
				label = fmt.Sprintf("#%d", ref)
			}
			fmt.Fprintf(w, "  %*d -> %s\n", width, i, label)
		}
	}
}

func writeScopeNode(w io.Writer, rec *debuginfo.Recorder, fs *source.FileSet,
	opts ScopesOpts, ref debuginfo.ScopeRef, prefix string, isLast, isRoot bool) {

	record := rec.Get(ref)
	if record == nil {
		return
	}

	connector := ""
	childPrefix := prefix
	if !isRoot {
		if isLast {
			connector = prefix + "└── "
			childPrefix = prefix + "    "
		} else {
			connector = prefix + "├── "
			childPrefix = prefix + "│   "
		}
	}

	fmt.Fprintf(w, "%s%s\n", connector, scopeLabel(record, ref, fs, opts))

	children := rec.Children(ref)
	for i, child := range children {
		writeScopeNode(w, rec, fs, opts, child, childPrefix, i == len(children)-1, false)
	}
}

func scopeLabel(record *debuginfo.ScopeRecord, ref debuginfo.ScopeRef, fs *source.FileSet, opts ScopesOpts) string {
	kind := "lexical"
	if record.Kind == debuginfo.ScopeRecordFunction {
		kind = "function"
	}

	// Выравниваем метки по ширине, учитывая многобайтовые пути.
	tag := runewidth.FillRight(fmt.Sprintf("#%d %s", ref, kind), 14)

	path := "<unknown>"
	if fs != nil && fs.Len() > int(record.File) {
		path = formatPath(fs.Get(record.File), opts.PathMode)
	}
	if record.Kind == debuginfo.ScopeRecordFunction {
		return strings.TrimRight(tag, " ") + fmt.Sprintf(" @ %s:%d", path, record.Line)
	}
	return strings.TrimRight(tag, " ") + fmt.Sprintf(" @ %s:%d:%d", path, record.Line, record.Col)
}

// ScopeNodeJSON is one scope in the JSON tree.
type ScopeNodeJSON struct {
	Ref      uint32          `json:"ref"`
	Kind     string          `json:"kind"`
	File     string          `json:"file"`
	Line     uint32          `json:"line"`
	Col      uint32          `json:"col,omitempty"`
	Children []ScopeNodeJSON `json:"children,omitempty"`
}

// ScopesOutput is the root JSON structure for one function.
type ScopesOutput struct {
	Fn        string          `json:"fn"`
	NodeCount int             `json:"node_count,omitempty"`
	FromCache bool            `json:"from_cache,omitempty"`
	Scopes    []ScopeNodeJSON `json:"scopes"`
	Table     []uint32        `json:"mir_table,omitempty"`
}

// BuildScopesOutput формирует структуру JSON-вывода без сериализации.
func BuildScopesOutput(in ScopesInput, fs *source.FileSet, opts ScopesOpts) ScopesOutput {
	out := ScopesOutput{
		Fn:        in.Name,
		NodeCount: in.NodeCount,
		FromCache: in.FromCache,
	}
	if in.Recorder != nil {
		for _, root := range in.Recorder.Roots() {
			out.Scopes = append(out.Scopes, buildScopeNode(in.Recorder, fs, opts, root))
		}
	}
	if opts.ShowTable {
		out.Table = make([]uint32, len(in.Table))
		for i, ref := range in.Table {
			out.Table[i] = uint32(ref)
		}
	}
	return out
}

func buildScopeNode(rec *debuginfo.Recorder, fs *source.FileSet, opts ScopesOpts, ref debuginfo.ScopeRef) ScopeNodeJSON {
	record := rec.Get(ref)
	node := ScopeNodeJSON{Ref: uint32(ref)}
	if record == nil {
		return node
	}
	node.Kind = "lexical"
	if record.Kind == debuginfo.ScopeRecordFunction {
		node.Kind = "function"
	}
	node.File = "<unknown>"
	if fs != nil && fs.Len() > int(record.File) {
		node.File = formatPath(fs.Get(record.File), opts.PathMode)
	}
	node.Line = record.Line
	node.Col = record.Col
	for _, child := range rec.Children(ref) {
		node.Children = append(node.Children, buildScopeNode(rec, fs, opts, child))
	}
	return node
}

// ScopesJSON сериализует дерево скоупов в JSON и пишет в w.
func ScopesJSON(w io.Writer, in ScopesInput, fs *source.FileSet, opts ScopesOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildScopesOutput(in, fs, opts))
}
