package utils

import (
	"go/ast"
	"go/build"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/lifecycle/internal/errors"
)

// AutogenPrefix marks files written by lifecyclegen
const AutogenPrefix = "autogen_"

// FileProcessor provides utilities for common file processing operations
type FileProcessor struct {
	fileReader *FileReader
}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return NewFileProcessorWithReader(NewFileReader())
}

// NewFileProcessorWithReader creates a file processor with an existing FileReader
func NewFileProcessorWithReader(reader *FileReader) *FileProcessor {
	return &FileProcessor{
		fileReader: reader,
	}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be processed
type DirectoryFilter func(path string, info os.DirEntry) bool

// DefaultGoFileFilter filters for .go files, excluding tests, autogen files and files
// whose build constraints exclude them from the current build context
func DefaultGoFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}

		name := info.Name()
		if !strings.HasSuffix(name, ".go") ||
			strings.HasSuffix(name, "_test.go") ||
			strings.HasPrefix(name, AutogenPrefix) {
			return false
		}

		match, err := build.Default.MatchFile(filepath.Dir(path), name)
		if err != nil {
			// unreadable headers are left for the parser to report
			return true
		}
		return match
	}
}

// AutogenFileFilter filters for generated .go files
func AutogenFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}

		name := info.Name()
		return strings.HasPrefix(name, AutogenPrefix) && strings.HasSuffix(name, ".go")
	}
}

// DefaultDirectoryFilter skips directories that shouldn't contain source code
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}

		name := info.Name()

		// hidden and underscore-prefixed directories are ignored by the go tool too
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			return false
		}

		return !skipDirs[name]
	}
}

// ScanDirectoriesWithGoFiles recursively collects directories containing Go files
func (fp *FileProcessor) ScanDirectoriesWithGoFiles(rootDirs []string) ([]string, error) {
	var packageDirs []string
	visited := make(map[string]bool)

	for _, rootDir := range rootDirs {
		dirs, err := fp.scanDirectoryRecursive(rootDir, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, dirs...)
	}

	return packageDirs, nil
}

// scanDirectoryRecursive recursively scans a directory for Go files
func (fp *FileProcessor) scanDirectoryRecursive(dir string, visited map[string]bool) ([]string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.WrapFileSystemError("resolve", dir, err)
	}

	if visited[absDir] {
		return nil, nil
	}
	visited[absDir] = true

	var packageDirs []string

	hasGoFiles, err := fp.HasGoFiles(dir)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", dir, err)
	}
	if hasGoFiles {
		packageDirs = append(packageDirs, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", dir, err)
	}

	directoryFilter := DefaultDirectoryFilter()
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		entryPath := filepath.Join(dir, entry.Name())
		if !directoryFilter(entryPath, entry) {
			continue
		}

		subDirs, err := fp.scanDirectoryRecursive(entryPath, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, subDirs...)
	}

	return packageDirs, nil
}

// HasGoFiles checks if a directory contains any .go files (excluding test files and autogen files)
func (fp *FileProcessor) HasGoFiles(dir string) (bool, error) {
	files, err := fp.listFiles(dir, DefaultGoFileFilter())
	if err != nil {
		return false, err
	}
	return len(files) > 0, nil
}

// ListAutogenFiles returns the generated files in dir, sorted. A missing directory
// has none.
func (fp *FileProcessor) ListAutogenFiles(dir string) ([]string, error) {
	files, err := fp.listFiles(dir, AutogenFileFilter())
	if os.IsNotExist(err) {
		return nil, nil
	}
	return files, err
}

// SourceFile is a parsed file and the path it was read from
type SourceFile struct {
	Path string
	AST  *ast.File
}

// ParseDirectoryFiles parses all Go files in a directory, sorted by path
func (fp *FileProcessor) ParseDirectoryFiles(dirPath string) ([]SourceFile, string, error) {
	paths, err := fp.listFiles(dirPath, DefaultGoFileFilter())
	if err != nil {
		return nil, "", errors.WrapFileSystemError("read", dirPath, err)
	}

	var files []SourceFile
	var packageName string

	for _, path := range paths {
		file, err := fp.fileReader.ParseGoFile(path)
		if err != nil {
			return nil, "", errors.WrapParseError(path, err)
		}

		if packageName == "" {
			packageName = file.Name.Name
		} else if file.Name.Name != packageName {
			return nil, "", errors.Newf(errors.SyntaxErrorCode,
				"multiple packages found in directory %s: %s and %s", dirPath, packageName, file.Name.Name)
		}

		files = append(files, SourceFile{Path: path, AST: file})
	}

	if len(files) == 0 {
		return nil, "", errors.Newf(errors.FileSystemErrorCode, "no Go files found in directory %s", dirPath)
	}

	return files, packageName, nil
}

// RemoveFiles deletes the given files and returns the ones actually removed
func (fp *FileProcessor) RemoveFiles(paths []string) ([]string, error) {
	var removed []string
	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, errors.WrapFileSystemError("remove", path, err)
		}
		fp.fileReader.InvalidateFile(path)
		removed = append(removed, path)
	}
	return removed, nil
}

// FileReader returns the underlying FileReader
func (fp *FileProcessor) FileReader() *FileReader {
	return fp.fileReader
}

func (fp *FileProcessor) listFiles(dir string, filter FileFilter) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if filter(path, entry) {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}
