package parser

import (
	"go/ast"

	"github.com/toyz/lifecycle/internal/models"
)

// MarkerParser defines the interface for extracting participant metadata from Go sources
type MarkerParser interface {
	ParseDirectory(path string) (*models.PackageMetadata, error)
	ParseSource(filename, source string) (*models.PackageMetadata, error)
	ExtractMarkers(file *ast.File) ([]MarkerHit, error)
}
