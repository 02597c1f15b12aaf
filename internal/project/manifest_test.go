package project

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ManifestFile, `
[package]
name = "acme/vault"
version = "0.1.0"

[[dependencies]]
name = "aiken-lang/stdlib"
version = "v2"
source = "github"
`)

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Name != "acme/vault" || m.Version != "0.1.0" {
		t.Fatalf("manifest = %+v", m)
	}
	if len(m.Dependencies) != 1 || m.Dependencies[0].Source != "github" {
		t.Fatalf("dependencies = %+v", m.Dependencies)
	}
}

func TestLoadManifestErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"no package", "[other]\nname = \"x\"\n", ErrPackageSectionMissing},
		{"no name", "[package]\nversion = \"1\"\n", ErrPackageNameMissing},
		{"bad name", "[package]\nname = \"vault\"\n", ErrPackageNameMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), ManifestFile, tt.content)
			if _, err := LoadManifest(path); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	path := writeFile(t, t.TempDir(), ManifestFile, "[package]\nname = \"a/b\"\n[[dependencies]]\nname = \"c/d\"\nsource = \"ftp\"\n")
	if _, err := LoadManifest(path); err == nil {
		t.Fatalf("unsupported source accepted")
	}
}

func TestFindManifest(t *testing.T) {
	root := t.TempDir()
	want := writeFile(t, root, ManifestFile, "[package]\nname = \"a/b\"\n")
	nested := filepath.Dir(writeFile(t, root, "validators/deep/x.ak", ""))

	got, ok, err := FindManifest(nested)
	if err != nil || !ok {
		t.Fatalf("FindManifest: %v %v", ok, err)
	}
	if got != want {
		t.Fatalf("FindManifest = %q, want %q", got, want)
	}
}
