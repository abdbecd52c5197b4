package generator

import (
	"sort"
	"strings"

	"github.com/toyz/lifecycle/internal/errors"
	"github.com/toyz/lifecycle/internal/models"
	"github.com/toyz/lifecycle/internal/templates"
	"github.com/toyz/lifecycle/internal/utils"
	"github.com/toyz/lifecycle/pkg/lifecycle"
)

// RuntimeImportPath is the import path of the participant contract generated code
// depends on
const RuntimeImportPath = "github.com/toyz/lifecycle/pkg/lifecycle"

// Generator implements the CodeGenerator interface
type Generator struct {
	naming lifecycle.Naming
	files  *utils.FileProcessor
}

var _ CodeGenerator = (*Generator)(nil)

// NewGenerator creates a new code generator instance
func NewGenerator(naming lifecycle.Naming) *Generator {
	return NewGeneratorWithProcessor(naming, utils.NewFileProcessor())
}

// NewGeneratorWithProcessor creates a generator sharing an existing file processor
func NewGeneratorWithProcessor(naming lifecycle.Naming, files *utils.FileProcessor) *Generator {
	return &Generator{
		naming: naming,
		files:  files,
	}
}

// Naming returns the naming adapters are generated with
func (g *Generator) Naming() lifecycle.Naming {
	return g.naming
}

// CollectDescriptors builds one descriptor per distinct marked type, sorted by
// qualified name. Packages without an import path are skipped.
func (g *Generator) CollectDescriptors(packages []*models.PackageMetadata) []models.ParticipantDescriptor {
	byName := make(map[string]models.ParticipantDescriptor)

	for _, pkg := range packages {
		if pkg == nil || pkg.ImportPath == "" {
			continue
		}
		for _, participant := range pkg.Participants {
			qualified := models.QualifiedName(pkg.ImportPath, participant.TypeName)
			if _, exists := byName[qualified]; exists {
				continue
			}
			byName[qualified] = models.ParticipantDescriptor{
				QualifiedName:   qualified,
				ImportPath:      pkg.ImportPath,
				PackageName:     pkg.PackageName,
				SimpleName:      participant.TypeName,
				ProxySimpleName: g.naming.ProxySimpleName(participant.TypeName),
				ProxyFullName:   g.naming.ProxyFullName(participant.TypeName),
				File:            participant.File,
				Line:            participant.Line,
			}
		}
	}

	descriptors := make([]models.ParticipantDescriptor, 0, len(byName))
	for _, descriptor := range byName {
		descriptors = append(descriptors, descriptor)
	}
	sort.Slice(descriptors, func(i, j int) bool {
		return descriptors[i].QualifiedName < descriptors[j].QualifiedName
	})

	return descriptors
}

// AdapterFileName returns the file an adapter is written to
func AdapterFileName(proxySimpleName string) string {
	return utils.AutogenPrefix + strings.ToLower(proxySimpleName) + ".go"
}

// GenerateAdapter renders the compilation unit for one descriptor
func (g *Generator) GenerateAdapter(descriptor models.ParticipantDescriptor) (*models.GeneratedAdapter, error) {
	imports := templates.NewImportManager(g.naming.Namespace)
	imports.AddImport("context")
	runtimeName := imports.AddPackageImport(RuntimeImportPath, "lifecycle")
	qualifier := imports.AddPackageImport(descriptor.ImportPath, descriptor.PackageName)

	content, err := templates.RenderAdapter(templates.AdapterData{
		Namespace:       g.naming.Namespace,
		Imports:         imports.GenerateImports(),
		RuntimeName:     runtimeName,
		Qualifier:       qualifier,
		SimpleName:      descriptor.SimpleName,
		ProxySimpleName: descriptor.ProxySimpleName,
		ProxyFullName:   descriptor.ProxyFullName,
	})
	if err != nil {
		return nil, errors.WrapGenerateError(descriptor.ProxyFullName, err)
	}

	fileName := AdapterFileName(descriptor.ProxySimpleName)
	formatted, err := utils.FormatGoCode(fileName, []byte(content))
	if err != nil {
		return nil, errors.WrapGenerateError(descriptor.ProxyFullName, err)
	}

	return &models.GeneratedAdapter{
		ProxyFullName: descriptor.ProxyFullName,
		FileName:      fileName,
		Content:       string(formatted),
	}, nil
}

// GenerateManifest renders the manifest for the given adapters, ordered by proxy
// full name so the injection path ties break like the scan path
func (g *Generator) GenerateManifest(descriptors []models.ParticipantDescriptor) (*models.GeneratedAdapter, error) {
	ordered := append([]models.ParticipantDescriptor(nil), descriptors...)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].ProxyFullName < ordered[j].ProxyFullName
	})

	proxies := make([]string, len(ordered))
	for i, descriptor := range ordered {
		proxies[i] = descriptor.ProxySimpleName
	}

	imports := templates.NewImportManager(g.naming.Namespace)
	runtimeName := imports.AddPackageImport(RuntimeImportPath, "lifecycle")

	manifestName := g.naming.Namespace + ".Manifest"
	content, err := templates.RenderManifest(templates.ManifestData{
		Namespace:   g.naming.Namespace,
		Imports:     imports.GenerateImports(),
		RuntimeName: runtimeName,
		Proxies:     proxies,
	})
	if err != nil {
		return nil, errors.WrapGenerateError(manifestName, err)
	}

	formatted, err := utils.FormatGoCode(models.ManifestFileName, []byte(content))
	if err != nil {
		return nil, errors.WrapGenerateError(manifestName, err)
	}

	return &models.GeneratedAdapter{
		ProxyFullName: manifestName,
		FileName:      models.ManifestFileName,
		Content:       string(formatted),
	}, nil
}

// Clean removes every generated file from outDir
func (g *Generator) Clean(outDir string) ([]string, error) {
	files, err := g.files.ListAutogenFiles(outDir)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", outDir, err)
	}
	return g.files.RemoveFiles(files)
}
