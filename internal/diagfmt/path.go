package diagfmt

import (
	"path/filepath"

	"drift/internal/source"
)

// formatPath renders a file path according to the selected mode.
func formatPath(f *source.File, mode PathMode) string {
	if f == nil {
		return "<unknown>"
	}
	switch mode {
	case PathModeAbsolute:
		abs, err := filepath.Abs(f.Path)
		if err != nil {
			return f.Path
		}
		return abs
	case PathModeBasename:
		return filepath.Base(f.Path)
	default:
		return f.Path
	}
}
