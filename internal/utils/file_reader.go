package utils

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
)

// FileReader parses and reads files, caching results until the file changes
type FileReader struct {
	fileSet      *token.FileSet
	astCache     *Cache[string, *ast.File]
	contentCache *Cache[string, []byte]
}

// NewFileReader creates a new FileReader instance with caching
func NewFileReader() *FileReader {
	return &FileReader{
		fileSet:      token.NewFileSet(),
		astCache:     NewCache[string, *ast.File](),
		contentCache: NewCache[string, []byte](),
	}
}

// ParseGoFile parses a Go source file with comments
func (fr *FileReader) ParseGoFile(filePath string) (*ast.File, error) {
	cleanPath := filepath.Clean(filePath)

	if cached, ok := fr.astCache.Get(cleanPath, cleanPath); ok {
		return cached, nil
	}

	file, err := parser.ParseFile(fr.fileSet, cleanPath, nil, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	_ = fr.astCache.Set(cleanPath, file, cleanPath)
	return file, nil
}

// ParseGoSource parses Go source code from a string
func (fr *FileReader) ParseGoSource(filename, source string) (*ast.File, error) {
	return parser.ParseFile(fr.fileSet, filename, source, parser.ParseComments)
}

// ReadFile reads a file's contents
func (fr *FileReader) ReadFile(filePath string) ([]byte, error) {
	cleanPath := filepath.Clean(filePath)

	if cached, ok := fr.contentCache.Get(cleanPath, cleanPath); ok {
		return cached, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filepath.Base(cleanPath), err)
	}

	_ = fr.contentCache.Set(cleanPath, content, cleanPath)
	return content, nil
}

// FileSet returns the token.FileSet positions are resolved against
func (fr *FileReader) FileSet() *token.FileSet {
	return fr.fileSet
}

// Position resolves a token position to a file, line and column
func (fr *FileReader) Position(pos token.Pos) token.Position {
	return fr.fileSet.Position(pos)
}

// InvalidateFile removes a specific file from the cache
func (fr *FileReader) InvalidateFile(filePath string) {
	cleanPath := filepath.Clean(filePath)
	fr.astCache.Delete(cleanPath)
	fr.contentCache.Delete(cleanPath)
}
