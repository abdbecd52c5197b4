package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/toyz/lifecycle/internal/errors"
	"github.com/toyz/lifecycle/internal/generator"
	"github.com/toyz/lifecycle/internal/models"
	"github.com/toyz/lifecycle/internal/parser"
	"github.com/toyz/lifecycle/internal/utils"
)

// GenerationSummary describes the outcome of one run
type GenerationSummary struct {
	PackagesProcessed int
	ParticipantsFound int
	GeneratedFiles    []string
	RemovedFiles      []string
	Failures          int
	Duration          time.Duration
}

// Generator coordinates the CLI generation process
type Generator struct {
	files          *utils.FileProcessor
	scanner        *DirectoryScanner
	moduleResolver *ModuleResolver
	parser         parser.MarkerParser
	diagnostics    *utils.DiagnosticSystem
	summary        GenerationSummary
}

// NewGenerator creates a new CLI generator reporting through diagnostics
func NewGenerator(diagnostics *utils.DiagnosticSystem) *Generator {
	files := utils.NewFileProcessor()
	return &Generator{
		files:          files,
		scanner:        NewDirectoryScanner(files),
		moduleResolver: NewModuleResolver(files.FileReader()),
		parser:         parser.NewParserWithProcessor(files),
		diagnostics:    diagnostics,
	}
}

// Summary returns the summary of the last run
func (g *Generator) Summary() GenerationSummary {
	return g.summary
}

// Run executes the complete generation process. Malformed markers, invalid targets
// and module resolution problems abort before any file is written. Emission failures
// are reported per adapter after every sibling was attempted, and the returned error
// is then an *errors.EmissionErrors.
func (g *Generator) Run(config Config) error {
	startTime := time.Now()
	g.summary = GenerationSummary{}
	defer func() { g.summary.Duration = time.Since(startTime) }()

	if err := config.Validate(); err != nil {
		return err
	}

	g.diagnostics.Header("Generating lifecycle adapters")
	g.diagnostics.SourcePath(config.Directories...)
	g.diagnostics.Verbose("Starting code generation at %s", startTime.Format("15:04:05"))

	g.diagnostics.PhaseHeader("Resolving module")
	module, err := g.moduleResolver.ResolveModule(config.ModuleName)
	if err != nil {
		return err
	}
	g.diagnostics.PhaseItem("Module %s (%s)", module.Path, module.Root)

	g.diagnostics.PhaseHeader("Scanning packages")
	packageDirs, err := g.scanner.ScanDirectories(config.Directories)
	if err != nil {
		return err
	}
	if len(packageDirs) == 0 {
		return errors.New(errors.FileSystemErrorCode, "no Go packages found in specified directories").
			WithContext("directories", config.Directories).
			WithSuggestions("Ensure the directories contain Go files", "Try the './...' pattern to scan recursively")
	}

	outDir, err := filepath.Abs(config.OutDir)
	if err != nil {
		return errors.WrapFileSystemError("resolve", config.OutDir, err)
	}

	packages, err := g.parsePackages(module, packageDirs, outDir)
	if err != nil {
		return err
	}

	var codeGenerator generator.CodeGenerator = generator.NewGeneratorWithProcessor(config.Naming(), g.files)
	descriptors := codeGenerator.CollectDescriptors(packages)
	g.summary.ParticipantsFound = len(descriptors)
	g.diagnostics.PhaseItem("Found %d participants in %d packages", len(descriptors), g.summary.PackagesProcessed)
	g.diagnostics.Indent()
	for _, descriptor := range descriptors {
		g.diagnostics.Verbose("%s -> %s", descriptor.QualifiedName, descriptor.ProxyFullName)
	}
	g.diagnostics.Unindent()

	g.diagnostics.PhaseHeader("Writing adapters")
	result, emitErr := codeGenerator.Emit(outDir, descriptors)
	if result != nil {
		g.summary.GeneratedFiles = result.Written
		g.summary.RemovedFiles = result.Removed
		g.summary.Failures = len(result.Failures)

		for _, path := range result.Written {
			g.diagnostics.PhaseWrite(g.relative(path))
		}
		g.diagnostics.Indent()
		for _, path := range result.Removed {
			g.diagnostics.Verbose("Removed stale %s", g.relative(path))
		}
		for _, failure := range result.Failures {
			g.diagnostics.Report(failure)
		}
		g.diagnostics.Unindent()
	}
	if emitErr != nil {
		return emitErr
	}

	g.diagnostics.Summary("Summary", []string{"Packages processed", "Participants found", "Files written", "Files removed"},
		map[string]interface{}{
			"Packages processed": g.summary.PackagesProcessed,
			"Participants found": g.summary.ParticipantsFound,
			"Files written":      len(g.summary.GeneratedFiles),
			"Files removed":      len(g.summary.RemovedFiles),
		})
	g.diagnostics.GenerationComplete()
	return nil
}

// parsePackages parses every package directory and attaches its import path. The
// output package is skipped; it only holds generated adapters.
func (g *Generator) parsePackages(module ModuleInfo, packageDirs []string, outDir string) ([]*models.PackageMetadata, error) {
	var packages []*models.PackageMetadata

	for _, dir := range packageDirs {
		if dir == outDir {
			g.diagnostics.Debug("Skipping output package %s", dir)
			continue
		}

		metadata, err := g.parser.ParseDirectory(dir)
		if err != nil {
			return nil, err
		}
		g.summary.PackagesProcessed++

		if !metadata.HasParticipants() {
			g.diagnostics.Debug("No participants in %s", g.relative(dir))
			continue
		}

		importPath, err := g.moduleResolver.BuildPackagePath(module, dir)
		if err != nil {
			return nil, err
		}
		metadata.ImportPath = importPath

		for _, participant := range metadata.Participants {
			if missing := participant.MissingHooks(); len(missing) > 0 {
				g.diagnostics.Warn("%s:%d: %s.%s does not declare %v in its package; the adapter will not compile unless they are promoted from an embedded type",
					g.relative(participant.File), participant.Line, metadata.PackageName, participant.TypeName, missing)
			}
		}

		packages = append(packages, metadata)
	}

	return packages, nil
}

// relative shortens a path for display
func (g *Generator) relative(path string) string {
	workDir, err := os.Getwd()
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(workDir, path); err == nil {
		return rel
	}
	return path
}
