package annotations

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/lifecycle/internal/errors"
)

// directive is the grammar of a lifecycle marker. It takes no parameters, so any
// token after the kind leaves input unconsumed and fails the parse.
type directive struct {
	Comment   string `parser:"@Comment"`
	Namespace string `parser:"@Lifecycle"`
	Separator string `parser:"@Separator"`
	Kind      string `parser:"@Ident"`
}

// Parser parses lifecycle marker comments
type Parser struct {
	parser *participle.Parser[directive]
}

// NewParser creates a marker parser
func NewParser() *Parser {
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `//`},
		{Name: "Lifecycle", Pattern: `lifecycle\b`},
		{Name: "Separator", Pattern: `::`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Whitespace", Pattern: `[ \t]+`},
		{Name: "Other", Pattern: `[^ \t]+`},
	})

	return &Parser{
		parser: participle.MustBuild[directive](
			participle.Lexer(lex),
			participle.Elide("Whitespace"),
		),
	}
}

// IsMarker reports whether a comment line is a lifecycle directive. Other comments
// are ignored by the generator.
func IsMarker(comment string) bool {
	return strings.HasPrefix(normalize(comment), MarkerPrefix)
}

// normalize trims the comment and drops the space gofmt adds after the slashes
func normalize(comment string) string {
	text := strings.TrimSpace(comment)
	if rest, ok := strings.CutPrefix(text, "// "); ok {
		return "//" + rest
	}
	return text
}

// Parse parses a single comment line. The caller is expected to have checked
// IsMarker; anything that fails the grammar is a syntax error.
func (p *Parser) Parse(comment string, loc errors.SourceLocation) (*Marker, error) {
	raw := normalize(comment)

	parsed, err := p.parser.ParseString(loc.File, raw)
	if err != nil {
		return nil, errors.NewSyntaxError(raw, "malformed lifecycle marker: "+describe(err), loc)
	}

	kind, ok := knownKinds[parsed.Kind]
	if !ok {
		return nil, errors.NewSyntaxError(raw, "unknown lifecycle marker kind '"+parsed.Kind+"'", loc)
	}

	return &Marker{
		Kind:     kind,
		Location: loc,
		Raw:      raw,
	}, nil
}

// describe strips participle's position prefix since the location is reported separately
func describe(err error) string {
	if perr, ok := err.(participle.Error); ok {
		return perr.Message()
	}
	return err.Error()
}
