package generator

import "github.com/toyz/lifecycle/internal/models"

// CodeGenerator defines the interface for rendering and writing adapters
type CodeGenerator interface {
	CollectDescriptors(packages []*models.PackageMetadata) []models.ParticipantDescriptor
	GenerateAdapter(descriptor models.ParticipantDescriptor) (*models.GeneratedAdapter, error)
	GenerateManifest(descriptors []models.ParticipantDescriptor) (*models.GeneratedAdapter, error)
	Emit(outDir string, descriptors []models.ParticipantDescriptor) (*Result, error)
}
