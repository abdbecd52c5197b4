package utils

import (
	"path/filepath"

	"golang.org/x/mod/modfile"

	"github.com/toyz/lifecycle/internal/errors"
)

// GoModParser provides utilities for parsing go.mod files
type GoModParser struct {
	fileReader *FileReader
}

// NewGoModParser creates a new go.mod parser with caching
func NewGoModParser(fileReader *FileReader) *GoModParser {
	return &GoModParser{
		fileReader: fileReader,
	}
}

// ParseModuleName extracts the module path from a go.mod file
func (p *GoModParser) ParseModuleName(goModPath string) (string, error) {
	cleanPath := filepath.Clean(goModPath)
	if filepath.Base(cleanPath) != "go.mod" {
		return "", errors.Newf(errors.ConfigurationErrorCode, "file is not a go.mod file: %s", goModPath)
	}

	content, err := p.fileReader.ReadFile(cleanPath)
	if err != nil {
		return "", errors.WrapConfigurationError("go.mod", "read", err)
	}

	modFile, err := modfile.Parse(cleanPath, content, nil)
	if err != nil {
		return "", errors.WrapConfigurationError("go.mod", "parse", err)
	}

	if modFile.Module == nil || modFile.Module.Mod.Path == "" {
		return "", errors.New(errors.ConfigurationErrorCode, "no module declaration found in go.mod").
			WithLocation(errors.SourceLocation{File: cleanPath})
	}

	return modFile.Module.Mod.Path, nil
}

// FindGoModFile searches for go.mod starting from the given directory and walking up
func (p *GoModParser) FindGoModFile(startDir string) (string, error) {
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", errors.WrapFileSystemError("resolve", startDir, err)
	}

	for {
		goModPath := filepath.Join(currentDir, "go.mod")
		if content, err := p.fileReader.ReadFile(goModPath); err == nil && len(content) > 0 {
			return goModPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", errors.Newf(errors.ConfigurationErrorCode, "go.mod file not found above %s", startDir).
		WithSuggestions("Run lifecyclegen inside a Go module or pass --module")
}
