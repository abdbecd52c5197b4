package cli

import (
	"github.com/toyz/lifecycle/internal/generator"
	"github.com/toyz/lifecycle/internal/utils"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	files *utils.FileProcessor
}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{
		files: utils.NewFileProcessor(),
	}
}

// CleanGeneratedFiles removes every autogen_*.go file from the configured output
// directory and returns the removed paths
func (c *Cleaner) CleanGeneratedFiles(config Config) ([]string, error) {
	if err := config.Naming().Validate(); err != nil {
		return nil, err
	}
	return generator.NewGeneratorWithProcessor(config.Naming(), c.files).Clean(config.OutDir)
}
