package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestFile is the name of the project manifest.
const ManifestFile = "plinth.toml"

// Dependency is a package entry in [[dependencies]].
type Dependency struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Source  string `toml:"source"`
}

// Manifest describes a project's plinth.toml.
type Manifest struct {
	Name         string
	Version      string
	Description  string
	Dependencies []Dependency
}

var (
	// ErrPackageSectionMissing indicates that [package] is missing in a manifest.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates that [package].name is missing or malformed.
	ErrPackageNameMissing = errors.New("missing [package].name")
)

type manifestFile struct {
	Package struct {
		Name        string `toml:"name"`
		Version     string `toml:"version"`
		Description string `toml:"description"`
	} `toml:"package"`
	Dependencies []Dependency `toml:"dependencies"`
}

// LoadManifest parses a plinth.toml.
func LoadManifest(path string) (Manifest, error) {
	var cfg manifestFile
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Manifest{}, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	name := strings.TrimSpace(cfg.Package.Name)
	if !IsValidPackageName(name) {
		return Manifest{}, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	for i, dep := range cfg.Dependencies {
		if !IsValidPackageName(strings.TrimSpace(dep.Name)) {
			return Manifest{}, fmt.Errorf("%s: dependency #%d has invalid name %q", path, i+1, dep.Name)
		}
		switch dep.Source {
		case "", "github", "gitlab", "bitbucket":
		default:
			return Manifest{}, fmt.Errorf("%s: dependency %q has unsupported source %q", path, dep.Name, dep.Source)
		}
	}
	return Manifest{
		Name:         name,
		Version:      strings.TrimSpace(cfg.Package.Version),
		Description:  cfg.Package.Description,
		Dependencies: cfg.Dependencies,
	}, nil
}

// IsValidPackageName accepts "owner/repo" names.
func IsValidPackageName(name string) bool {
	owner, repo, ok := strings.Cut(name, "/")
	return ok && owner != "" && repo != "" && !strings.Contains(repo, "/")
}

// FindManifest walks up from startDir to locate plinth.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}
