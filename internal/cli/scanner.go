package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/toyz/lifecycle/internal/errors"
	"github.com/toyz/lifecycle/internal/utils"
)

// DirectoryScanner handles recursive directory scanning for Go files
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner(fileProcessor *utils.FileProcessor) *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: fileProcessor,
	}
}

// ScanDirectories returns the directories containing Go packages for the given
// patterns. A Go-style "/..." suffix scans the tree below the directory; a plain
// directory is scanned on its own.
func (s *DirectoryScanner) ScanDirectories(patterns []string) ([]string, error) {
	var packageDirs []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		baseDir, recursive := splitPattern(pattern)

		cleanPath, err := filepath.Abs(baseDir)
		if err != nil {
			return nil, errors.WrapFileSystemError("resolve", baseDir, err)
		}

		info, err := os.Stat(cleanPath)
		if err != nil {
			return nil, errors.WrapFileSystemError("read", baseDir, err).
				WithSuggestions("Check that the directory exists")
		}
		if !info.IsDir() {
			return nil, errors.Newf(errors.FileSystemErrorCode, "%s is not a directory", baseDir)
		}

		var dirs []string
		if recursive {
			dirs, err = s.fileProcessor.ScanDirectoriesWithGoFiles([]string{cleanPath})
			if err != nil {
				return nil, err
			}
		} else {
			hasGoFiles, err := s.fileProcessor.HasGoFiles(cleanPath)
			if err != nil {
				return nil, errors.WrapFileSystemError("read", baseDir, err)
			}
			if hasGoFiles {
				dirs = []string{cleanPath}
			}
		}

		for _, dir := range dirs {
			if !seen[dir] {
				seen[dir] = true
				packageDirs = append(packageDirs, dir)
			}
		}
	}

	return packageDirs, nil
}

// splitPattern strips a trailing "/..." and reports whether it was present
func splitPattern(pattern string) (string, bool) {
	if pattern == "..." {
		return ".", true
	}
	if base, ok := strings.CutSuffix(pattern, "/..."); ok {
		if base == "" {
			base = "."
		}
		return base, true
	}
	return pattern, false
}
