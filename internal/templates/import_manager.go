package templates

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// ImportManager handles import generation, deduplication and aliasing
type ImportManager struct {
	standardImports map[string]bool
	packageImports  map[string]string // path -> alias, empty when none is needed
	reserved        map[string]bool   // identifiers already taken in the generated file
}

// NewImportManager creates a new import manager. Reserved names are identifiers the
// generated file already uses, such as its own package name.
func NewImportManager(reserved ...string) *ImportManager {
	im := &ImportManager{
		standardImports: make(map[string]bool),
		packageImports:  make(map[string]string),
		reserved:        make(map[string]bool),
	}
	for _, name := range reserved {
		im.reserved[name] = true
	}
	return im
}

// AddImport adds a standard library import
func (im *ImportManager) AddImport(importPath string) {
	if importPath == "" {
		return
	}
	im.standardImports[importPath] = true
	im.reserved[path.Base(importPath)] = true
}

// AddPackageImport adds a non-standard import whose package is named packageName and
// returns the identifier the generated code must use to refer to it
func (im *ImportManager) AddPackageImport(importPath, packageName string) string {
	if alias, exists := im.packageImports[importPath]; exists {
		if alias == "" {
			return packageName
		}
		return alias
	}

	name := packageName
	for i := 0; im.reserved[name]; i++ {
		if i == 0 {
			name = packageName + "pkg"
		} else {
			name = fmt.Sprintf("%spkg%d", packageName, i+1)
		}
	}
	im.reserved[name] = true

	// spell the alias out when the identifier is not the last path element
	alias := ""
	if name != path.Base(importPath) {
		alias = name
	}
	im.packageImports[importPath] = alias
	return name
}

// GenerateImports generates the import section: standard library first, then
// everything else, each group sorted by path
func (im *ImportManager) GenerateImports() string {
	var groups [][]string

	if len(im.standardImports) > 0 {
		var std []string
		for imp := range im.standardImports {
			std = append(std, fmt.Sprintf("%q", imp))
		}
		sort.Strings(std)
		groups = append(groups, std)
	}

	if len(im.packageImports) > 0 {
		paths := make([]string, 0, len(im.packageImports))
		for p := range im.packageImports {
			paths = append(paths, p)
		}
		sort.Strings(paths)

		var pkgs []string
		for _, p := range paths {
			if alias := im.packageImports[p]; alias != "" {
				pkgs = append(pkgs, fmt.Sprintf("%s %q", alias, p))
			} else {
				pkgs = append(pkgs, fmt.Sprintf("%q", p))
			}
		}
		groups = append(groups, pkgs)
	}

	if len(groups) == 0 {
		return ""
	}

	if len(groups) == 1 && len(groups[0]) == 1 {
		return fmt.Sprintf("import %s\n", groups[0][0])
	}

	var result strings.Builder
	result.WriteString("import (\n")
	for i, group := range groups {
		if i > 0 {
			result.WriteString("\n")
		}
		for _, imp := range group {
			result.WriteString(fmt.Sprintf("\t%s\n", imp))
		}
	}
	result.WriteString(")\n")

	return result.String()
}
