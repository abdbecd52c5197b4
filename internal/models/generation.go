package models

// GeneratedAdapter represents one rendered compilation unit
type GeneratedAdapter struct {
	ProxyFullName string // file identity within the namespace
	FileName      string // base name of the file
	FilePath      string // path where the file should be written
	Content       string // generated Go code content
}

// ManifestFileName is the name of the file listing every adapter in the namespace
const ManifestFileName = "autogen_manifest.go"
