package annotations

import (
	"github.com/toyz/lifecycle/internal/errors"
)

// MarkerPrefix is the text every lifecycle directive starts with. A single space
// may follow the slashes since gofmt inserts one into doc comments.
const MarkerPrefix = "//lifecycle::"

// Kind represents the kind of lifecycle marker
type Kind string

const (
	// KindParticipant marks a type that takes part in the start and stop phases
	KindParticipant Kind = "participant"
)

// String returns the string representation of the kind
func (k Kind) String() string {
	return string(k)
}

// knownKinds lists every kind the parser accepts
var knownKinds = map[string]Kind{
	string(KindParticipant): KindParticipant,
}

// Marker is a parsed lifecycle directive
type Marker struct {
	Kind     Kind
	Location errors.SourceLocation
	Raw      string
}
