package utils

import (
	"go/format"

	"golang.org/x/tools/imports"
)

// FormatGoCode formats generated source and fixes its import block. When goimports
// cannot process the source, plain gofmt formatting is used instead.
func FormatGoCode(filename string, source []byte) ([]byte, error) {
	formatted, err := imports.Process(filename, source, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err == nil {
		return formatted, nil
	}

	return format.Source(source)
}
