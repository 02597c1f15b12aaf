package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"plinth/internal/diag"
	"plinth/internal/diagfmt"
	"plinth/internal/driver"
	"plinth/internal/project"
	"plinth/internal/source"
)

// defaultListing is read when no listing path is given.
const defaultListing = "modules.toml"

const noListingMessage = "no " + defaultListing + " found\nplease specify the module listing explicitly, e.g.:\n  plinth check path/to/modules.toml"

type projectInput struct {
	listing  string
	manifest *project.Manifest
	modules  *project.ParsedModules
}

// loadProject reads the module listing named by args (or modules.toml in the
// working directory). The nearest plinth.toml above the listing supplies the
// package of modules that do not name one.
func loadProject(args []string, bag *diag.Bag) (*projectInput, error) {
	listing := defaultListing
	if len(args) > 0 {
		listing = args[0]
	}
	if _, err := os.Stat(listing); err != nil {
		if errors.Is(err, os.ErrNotExist) && len(args) == 0 {
			return nil, errors.New(noListingMessage)
		}
		return nil, err
	}

	in := &projectInput{listing: listing}
	manifestPath, ok, err := project.FindManifest(filepath.Dir(listing))
	if err != nil {
		return nil, err
	}
	defaultPackage := ""
	if ok {
		manifest, err := project.LoadManifest(manifestPath)
		if err != nil {
			diag.ReportError(diag.BagReporter{Bag: bag}, diag.ProjInvalidManifest, "", source.Span{}, err.Error()).Emit()
			return nil, fmt.Errorf("invalid manifest: %w", err)
		}
		in.manifest = &manifest
		defaultPackage = manifest.Name
	}

	modules, err := project.LoadListing(listing, defaultPackage)
	if err != nil {
		if errors.Is(err, project.ErrDuplicateModule) {
			diag.ReportError(diag.BagReporter{Bag: bag}, diag.ProjDuplicateModule, "", source.Span{}, err.Error()).Emit()
		}
		return nil, err
	}
	in.modules = modules
	return in, nil
}

// sources resolves diagnostics against the listing's modules.
func (in *projectInput) sources() diagfmt.Sources {
	return func(module string) (string, string, bool) {
		if in == nil || in.modules == nil {
			return "", "", false
		}
		m, ok := in.modules.Get(module)
		if !ok {
			return "", "", false
		}
		return m.Path, m.Code, true
	}
}

// openCache opens the order cache unless --no-cache is set. A cache that
// cannot be opened is skipped.
func openCache(cmd *cobra.Command) *driver.SequenceCache {
	flags := cmd.Root().PersistentFlags()
	if off, _ := flags.GetBool("no-cache"); off {
		return nil
	}
	dir, _ := flags.GetString("cache-dir")
	cache, err := driver.OpenSequenceCache(dir, "plinth")
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: module order cache disabled: %v\n", err)
		return nil
	}
	return cache
}
