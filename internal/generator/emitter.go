package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/toyz/lifecycle/internal/errors"
	"github.com/toyz/lifecycle/internal/models"
)

// Result summarizes one emission pass
type Result struct {
	Descriptors []models.ParticipantDescriptor // every descriptor the pass was given
	Written     []string                       // files written, manifest last
	Removed     []string                       // stale generated files deleted
	Failures    []*errors.EmissionError        // descriptors that could not be emitted
}

// Emit writes one adapter per descriptor plus the manifest into outDir. A descriptor
// that cannot be emitted is recorded and the rest still proceed; the returned error is
// then an *errors.EmissionErrors. Files of the namespace that no longer belong to any
// descriptor are removed.
func (g *Generator) Emit(outDir string, descriptors []models.ParticipantDescriptor) (*Result, error) {
	result := &Result{Descriptors: descriptors}
	failures := &errors.EmissionErrors{}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return result, errors.WrapFileSystemError("create", outDir, err)
	}

	// expected is keyed by file name so stale files can be told apart
	expected := map[string]bool{models.ManifestFileName: true}
	proxyOwners := make(map[string]string)
	fileOwners := make(map[string]string)
	var emitted []models.ParticipantDescriptor

	fail := func(emissionErr *errors.EmissionError) {
		failures.Add(emissionErr)
		result.Failures = append(result.Failures, emissionErr)
	}

	for _, descriptor := range descriptors {
		fileName := AdapterFileName(descriptor.ProxySimpleName)
		path := filepath.Join(outDir, fileName)

		if owner, taken := proxyOwners[descriptor.ProxySimpleName]; taken {
			fail(errors.NewEmissionError(descriptor.ProxyFullName, path,
				fmt.Errorf("%s collides with %s: both produce %s", descriptor.QualifiedName, owner, descriptor.ProxySimpleName)))
			continue
		}
		if owner, taken := fileOwners[fileName]; taken {
			fail(errors.NewEmissionError(descriptor.ProxyFullName, path,
				fmt.Errorf("%s collides with %s: both produce file %s", descriptor.QualifiedName, owner, fileName)))
			continue
		}
		proxyOwners[descriptor.ProxySimpleName] = descriptor.QualifiedName
		fileOwners[fileName] = descriptor.QualifiedName
		expected[fileName] = true

		adapter, err := g.GenerateAdapter(descriptor)
		if err != nil {
			fail(errors.NewEmissionError(descriptor.ProxyFullName, path, err))
			continue
		}

		if err := g.write(path, adapter); err != nil {
			fail(errors.NewEmissionError(descriptor.ProxyFullName, path, err))
			continue
		}

		result.Written = append(result.Written, path)
		emitted = append(emitted, descriptor)
	}

	manifestPath := filepath.Join(outDir, models.ManifestFileName)
	manifest, err := g.GenerateManifest(emitted)
	if err == nil {
		err = g.write(manifestPath, manifest)
	}
	if err != nil {
		fail(errors.NewEmissionError(g.naming.Namespace+".Manifest", manifestPath, err))
	} else {
		result.Written = append(result.Written, manifestPath)
	}

	removed, err := g.prune(outDir, expected)
	result.Removed = removed
	if err != nil {
		return result, err
	}

	return result, failures.ErrOrNil()
}

func (g *Generator) write(path string, adapter *models.GeneratedAdapter) error {
	adapter.FilePath = path
	if err := os.WriteFile(path, []byte(adapter.Content), 0644); err != nil {
		return errors.WrapFileSystemError("write", path, err)
	}
	g.files.FileReader().InvalidateFile(path)
	return nil
}

// prune deletes generated files whose name is not expected
func (g *Generator) prune(outDir string, expected map[string]bool) ([]string, error) {
	files, err := g.files.ListAutogenFiles(outDir)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", outDir, err)
	}

	var stale []string
	for _, path := range files {
		if !expected[filepath.Base(path)] {
			stale = append(stale, path)
		}
	}
	return g.files.RemoveFiles(stale)
}
