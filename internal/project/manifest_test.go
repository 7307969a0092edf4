package project

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "drift.toml")
	content := `
[package]
name = "demo"

[debuginfo]
level = "none"
max_diagnostics = 50
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Name != "demo" {
		t.Errorf("Name = %q, want demo", m.Name)
	}
	if m.DebugLevel != DebugNone {
		t.Errorf("DebugLevel = %v, want none", m.DebugLevel)
	}
	if m.MaxDiags != 50 {
		t.Errorf("MaxDiags = %d, want 50", m.MaxDiags)
	}
}

func TestLoadManifestMissingPackage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "drift.toml")
	if err := os.WriteFile(path, []byte("[debuginfo]\nlevel = \"full\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadManifest(path); err == nil {
		t.Fatal("expected error for missing [package]")
	}
}

func TestFindProjectRoot(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "drift.toml"), []byte("[package]\nname = \"x\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	root, ok, err := FindProjectRoot(sub)
	if err != nil {
		t.Fatalf("FindProjectRoot: %v", err)
	}
	if !ok {
		t.Fatal("manifest not found")
	}
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		t.Fatal(err)
	}
	want, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != want {
		t.Errorf("root = %q, want %q", resolved, want)
	}
}

func TestParseDebugLevel(t *testing.T) {
	if _, err := ParseDebugLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
	if l, err := ParseDebugLevel(""); err != nil || l != DebugFull {
		t.Errorf("empty level: %v %v", l, err)
	}
}
