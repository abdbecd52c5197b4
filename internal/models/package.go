package models

// PackageMetadata represents every participant marker found in a package
type PackageMetadata struct {
	PackageName  string                // name of the Go package
	PackagePath  string                // file system path to the package
	ImportPath   string                // full import path, set once the module is known
	Participants []ParticipantMetadata // marked types, in source order
}

// HasParticipants reports whether the package contains any marked type
func (p *PackageMetadata) HasParticipants() bool {
	return len(p.Participants) > 0
}
