package movepkg

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cordialsys/resource-deployer/client/errors"
)

const DefaultRoot = "../tokens-move"

// Package is a resolved Move package directory
type Package struct {
	Module   string
	Dir      string
	Manifest *Manifest
}

// Resolver maps module names to package directories under Root
type Resolver struct {
	Root string
}

func NewResolver(root string) *Resolver {
	if root == "" {
		root = DefaultRoot
	}
	return &Resolver{Root: root}
}

func (r *Resolver) Resolve(module string) (*Package, error) {
	if module == "" {
		return nil, errors.ModuleNotFoundf("module name is required")
	}
	if module == "." || module == ".." || strings.ContainsAny(module, `/\`) || strings.Contains(module, "..") {
		return nil, errors.ModuleNotFoundf("invalid module name %q", module)
	}
	dir := filepath.Join(r.Root, module)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, errors.ModuleNotFoundf("module %q not found under %s", module, r.Root)
	}
	manifest, err := ReadManifest(dir)
	if err != nil {
		return nil, err
	}
	return &Package{
		Module:   module,
		Dir:      dir,
		Manifest: manifest,
	}, nil
}
