package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/lifecycle/internal/errors"
)

func TestIsMarker(t *testing.T) {
	tests := []struct {
		name     string
		comment  string
		expected bool
	}{
		{"participant marker", "//lifecycle::participant", true},
		{"surrounding whitespace", "  //lifecycle::participant\t", true},
		{"unknown kind still a marker", "//lifecycle::foo", true},
		{"plain comment", "// Service does things", false},
		{"space after slashes", "// lifecycle::participant", true},
		{"two spaces after slashes", "//  lifecycle::participant", false},
		{"other tool directive", "//go:generate lifecyclegen ./...", false},
		{"prefix only without separator", "//lifecycle participant", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsMarker(tt.comment))
		})
	}
}

func TestParser_Parse(t *testing.T) {
	parser := NewParser()
	loc := errors.SourceLocation{File: "service.go", Line: 10, Column: 1}

	t.Run("valid participant marker", func(t *testing.T) {
		marker, err := parser.Parse("//lifecycle::participant", loc)
		require.NoError(t, err)
		assert.Equal(t, KindParticipant, marker.Kind)
		assert.Equal(t, loc, marker.Location)
		assert.Equal(t, "//lifecycle::participant", marker.Raw)
	})

	t.Run("gofmt spacing is normalized", func(t *testing.T) {
		marker, err := parser.Parse("// lifecycle::participant", loc)
		require.NoError(t, err)
		assert.Equal(t, KindParticipant, marker.Kind)
		assert.Equal(t, "//lifecycle::participant", marker.Raw)
	})

	t.Run("trailing whitespace is trimmed", func(t *testing.T) {
		marker, err := parser.Parse("//lifecycle::participant   ", loc)
		require.NoError(t, err)
		assert.Equal(t, "//lifecycle::participant", marker.Raw)
	})

	invalid := []struct {
		name    string
		comment string
		message string
	}{
		{"unknown kind", "//lifecycle::service", "unknown lifecycle marker kind 'service'"},
		{"trailing parameter", "//lifecycle::participant -Priority=5", "malformed lifecycle marker"},
		{"trailing identifier", "//lifecycle::participant eager", "malformed lifecycle marker"},
		{"missing kind", "//lifecycle::", "malformed lifecycle marker"},
		{"kind is not an identifier", "//lifecycle::123", "malformed lifecycle marker"},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			marker, err := parser.Parse(tt.comment, loc)
			require.Error(t, err)
			assert.Nil(t, marker)
			assert.Contains(t, err.Error(), tt.message)
			assert.Contains(t, err.Error(), "service.go:10:1")

			var syntaxErr *errors.SyntaxError
			require.True(t, errors.As(err, &syntaxErr))
			assert.Equal(t, errors.SyntaxErrorCode, syntaxErr.ErrorCode())
		})
	}
}
