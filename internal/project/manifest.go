package project

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is the decoded form of a project drift.toml.
type Manifest struct {
	Name       string
	DebugLevel DebugLevel
	MaxDiags   int
}

// DebugLevel controls how much debug info the backend emits.
type DebugLevel uint8

const (
	// DebugFull emits complete scope information.
	DebugFull DebugLevel = iota
	// DebugNone suppresses all debug scope creation.
	DebugNone
)

func (l DebugLevel) String() string {
	if l == DebugNone {
		return "none"
	}
	return "full"
}

// ParseDebugLevel converts a manifest string to a DebugLevel.
func ParseDebugLevel(s string) (DebugLevel, error) {
	switch strings.ToLower(s) {
	case "", "full":
		return DebugFull, nil
	case "none":
		return DebugNone, nil
	default:
		return DebugFull, fmt.Errorf("invalid debug level: %q (expected: full|none)", s)
	}
}

// ErrPackageSectionMissing indicates that [package] is missing in a manifest.
var ErrPackageSectionMissing = errors.New("missing [package]")

type manifestFile struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Debuginfo struct {
		Level    string `toml:"level"`
		MaxDiags int    `toml:"max_diagnostics"`
	} `toml:"debuginfo"`
}

// LoadManifest parses a drift.toml file.
func LoadManifest(path string) (*Manifest, error) {
	var cfg manifestFile
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	level, err := ParseDebugLevel(cfg.Debuginfo.Level)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Manifest{
		Name:       cfg.Package.Name,
		DebugLevel: level,
		MaxDiags:   cfg.Debuginfo.MaxDiags,
	}, nil
}
