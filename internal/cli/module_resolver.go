package cli

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/toyz/lifecycle/internal/errors"
	"github.com/toyz/lifecycle/internal/utils"
)

// ModuleInfo identifies the module marked packages belong to
type ModuleInfo struct {
	Path string // module path from go.mod or --module
	Root string // directory import paths are computed relative to
}

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	goMod *utils.GoModParser
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver(fileReader *utils.FileReader) *ModuleResolver {
	return &ModuleResolver{
		goMod: utils.NewGoModParser(fileReader),
	}
}

// ResolveModule finds the module for the working directory. A custom module path
// overrides the one declared in go.mod; without a go.mod the working directory is
// the module root.
func (r *ModuleResolver) ResolveModule(customModule string) (ModuleInfo, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return ModuleInfo{}, errors.WrapFileSystemError("resolve", ".", err)
	}

	goModPath, findErr := r.goMod.FindGoModFile(workDir)
	if customModule != "" {
		root := workDir
		if findErr == nil {
			root = filepath.Dir(goModPath)
		}
		return ModuleInfo{Path: customModule, Root: root}, nil
	}

	if findErr != nil {
		return ModuleInfo{}, findErr
	}

	modulePath, err := r.goMod.ParseModuleName(goModPath)
	if err != nil {
		return ModuleInfo{}, err
	}

	return ModuleInfo{Path: modulePath, Root: filepath.Dir(goModPath)}, nil
}

// BuildPackagePath builds the full import path for a package directory
func (r *ModuleResolver) BuildPackagePath(module ModuleInfo, packageDir string) (string, error) {
	absPackageDir, err := filepath.Abs(packageDir)
	if err != nil {
		return "", errors.WrapFileSystemError("resolve", packageDir, err)
	}

	relPath, err := filepath.Rel(module.Root, absPackageDir)
	if err != nil {
		return "", errors.WrapFileSystemError("resolve", packageDir, err)
	}

	importPath := filepath.ToSlash(relPath)
	if importPath == ".." || strings.HasPrefix(importPath, "../") {
		return "", errors.Newf(errors.ConfigurationErrorCode,
			"package directory %s is outside module %s", packageDir, module.Path).
			WithSuggestions("Run lifecyclegen from the module that contains the marked packages")
	}

	if importPath == "." {
		return module.Path, nil
	}
	return path.Join(module.Path, importPath), nil
}
