package parser

import (
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"github.com/toyz/lifecycle/internal/annotations"
	"github.com/toyz/lifecycle/internal/errors"
	"github.com/toyz/lifecycle/internal/models"
	"github.com/toyz/lifecycle/internal/utils"
)

// MarkerHit is a lifecycle marker and the declaration it is attached to
type MarkerHit struct {
	Marker  *annotations.Marker
	Kind    errors.TargetKind
	Target  string    // declaration name; methods and fields are qualified by their owner
	Generic bool      // the target type declares type parameters
	Pos     token.Pos // position of the declaration name
}

// Parser implements the MarkerParser interface
type Parser struct {
	files   *utils.FileProcessor
	markers *annotations.Parser
}

// NewParser creates a new marker parser
func NewParser() *Parser {
	return NewParserWithProcessor(utils.NewFileProcessor())
}

// NewParserWithProcessor creates a parser sharing an existing file processor
func NewParserWithProcessor(files *utils.FileProcessor) *Parser {
	return &Parser{
		files:   files,
		markers: annotations.NewParser(),
	}
}

// ParseDirectory parses the package in path and returns its participants. The first
// malformed marker or invalid target is returned as an error.
func (p *Parser) ParseDirectory(path string) (*models.PackageMetadata, error) {
	sources, packageName, err := p.files.ParseDirectoryFiles(path)
	if err != nil {
		return nil, err
	}

	files := make([]*ast.File, len(sources))
	for i, source := range sources {
		files[i] = source.AST
	}

	return p.buildMetadata(packageName, path, files)
}

// ParseSource parses source code from a string for testing purposes
func (p *Parser) ParseSource(filename, source string) (*models.PackageMetadata, error) {
	file, err := p.files.FileReader().ParseGoSource(filename, source)
	if err != nil {
		return nil, errors.WrapParseError(filename, err)
	}

	return p.buildMetadata(file.Name.Name, "./", []*ast.File{file})
}

func (p *Parser) buildMetadata(packageName, path string, files []*ast.File) (*models.PackageMetadata, error) {
	metadata := &models.PackageMetadata{
		PackageName: packageName,
		PackagePath: path,
	}

	methods := make(map[string][]string)
	for _, file := range files {
		collectHookMethods(file, methods)
	}

	seen := make(map[string]bool)
	for _, file := range files {
		hits, err := p.ExtractMarkers(file)
		if err != nil {
			return nil, err
		}

		for _, hit := range hits {
			if err := p.validateHit(packageName, hit); err != nil {
				return nil, err
			}
			if seen[hit.Target] {
				continue
			}
			seen[hit.Target] = true

			pos := p.position(hit.Pos)
			metadata.Participants = append(metadata.Participants, models.ParticipantMetadata{
				TypeName: hit.Target,
				File:     pos.Filename,
				Line:     pos.Line,
				Methods:  methods[hit.Target],
			})
		}
	}

	return metadata, nil
}

// ExtractMarkers walks the top-level declarations of a file and returns every marker
// together with the kind of declaration it documents
func (p *Parser) ExtractMarkers(file *ast.File) ([]MarkerHit, error) {
	var hits []MarkerHit

	add := func(doc *ast.CommentGroup, kind errors.TargetKind, target string, generic bool, pos token.Pos) error {
		markers, err := p.parseDoc(doc)
		if err != nil {
			return err
		}
		for _, marker := range markers {
			hits = append(hits, MarkerHit{Marker: marker, Kind: kind, Target: target, Generic: generic, Pos: pos})
		}
		return nil
	}

	for _, decl := range file.Decls {
		switch node := decl.(type) {
		case *ast.GenDecl:
			// An ungrouped declaration carries its doc on the GenDecl. For a group the
			// outer doc applies to every spec in it. Trailing line comments count too.
			for _, spec := range node.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					kind := typeKind(s)
					generic := s.TypeParams != nil && len(s.TypeParams.List) > 0
					for _, doc := range []*ast.CommentGroup{node.Doc, s.Doc, s.Comment} {
						if err := add(doc, kind, s.Name.Name, generic, s.Name.Pos()); err != nil {
							return nil, err
						}
					}
					if err := p.extractFieldMarkers(s, add); err != nil {
						return nil, err
					}
				case *ast.ValueSpec:
					kind := errors.TargetVariable
					if node.Tok == token.CONST {
						kind = errors.TargetConstant
					}
					target := valueNames(s)
					for _, doc := range []*ast.CommentGroup{node.Doc, s.Doc, s.Comment} {
						if err := add(doc, kind, target, false, s.Pos()); err != nil {
							return nil, err
						}
					}
				}
			}
		case *ast.FuncDecl:
			kind, target := errors.TargetFunction, node.Name.Name
			if node.Recv != nil && len(node.Recv.List) > 0 {
				kind = errors.TargetMethod
				target = receiverTypeName(node.Recv.List[0].Type) + "." + node.Name.Name
			}
			if err := add(node.Doc, kind, target, false, node.Name.Pos()); err != nil {
				return nil, err
			}
		}
	}

	return hits, nil
}

// extractFieldMarkers records markers on struct fields and interface methods, including
// those of nested anonymous types
func (p *Parser) extractFieldMarkers(spec *ast.TypeSpec, add func(*ast.CommentGroup, errors.TargetKind, string, bool, token.Pos) error) error {
	var err error
	ast.Inspect(spec.Type, func(n ast.Node) bool {
		if err != nil {
			return false
		}

		var fields *ast.FieldList
		switch t := n.(type) {
		case *ast.StructType:
			fields = t.Fields
		case *ast.InterfaceType:
			fields = t.Methods
		default:
			return true
		}
		if fields == nil {
			return true
		}

		for _, field := range fields.List {
			target := spec.Name.Name + "." + fieldName(field)
			for _, doc := range []*ast.CommentGroup{field.Doc, field.Comment} {
				if err = add(doc, errors.TargetField, target, false, field.Pos()); err != nil {
					return false
				}
			}
		}
		return true
	})
	return err
}

func (p *Parser) parseDoc(doc *ast.CommentGroup) ([]*annotations.Marker, error) {
	if doc == nil {
		return nil, nil
	}

	var markers []*annotations.Marker
	for _, comment := range doc.List {
		if !annotations.IsMarker(comment.Text) {
			continue
		}

		marker, err := p.markers.Parse(comment.Text, p.location(comment.Pos()))
		if err != nil {
			return nil, err
		}
		markers = append(markers, marker)
	}
	return markers, nil
}

// validateHit checks that a marker sits on a type an adapter can wrap: a named,
// exported, non-generic, non-interface type outside package main
func (p *Parser) validateHit(packageName string, hit MarkerHit) error {
	loc := p.location(hit.Pos)

	switch hit.Kind {
	case errors.TargetType:
	case errors.TargetInterface:
		return errors.NewInvalidTargetError(hit.Kind, hit.Target, "interfaces cannot be instantiated", loc)
	case errors.TargetAlias:
		return errors.NewInvalidTargetError(hit.Kind, hit.Target, "aliases do not declare a new type", loc)
	default:
		return errors.NewInvalidTargetError(hit.Kind, hit.Target, "only type declarations can be participants", loc)
	}

	if !ast.IsExported(hit.Target) {
		return errors.NewInvalidTargetError(hit.Kind, hit.Target, "type is not exported", loc)
	}
	if hit.Generic {
		return errors.NewInvalidTargetError(hit.Kind, hit.Target, "generic types cannot be instantiated without type arguments", loc)
	}
	if packageName == "main" {
		return errors.NewInvalidTargetError(hit.Kind, hit.Target, "package main cannot be imported", loc)
	}
	return nil
}

func (p *Parser) position(pos token.Pos) token.Position {
	return p.files.FileReader().Position(pos)
}

func (p *Parser) location(pos token.Pos) errors.SourceLocation {
	position := p.position(pos)
	return errors.SourceLocation{File: position.Filename, Line: position.Line, Column: position.Column}
}

// collectHookMethods records the lifecycle hook methods declared per receiver type
func collectHookMethods(file *ast.File, methods map[string][]string) {
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil || len(fn.Recv.List) == 0 {
			continue
		}
		for _, hook := range models.HookMethods {
			if fn.Name.Name == hook {
				receiver := receiverTypeName(fn.Recv.List[0].Type)
				methods[receiver] = append(methods[receiver], hook)
			}
		}
	}
}

func typeKind(spec *ast.TypeSpec) errors.TargetKind {
	if spec.Assign.IsValid() {
		return errors.TargetAlias
	}
	if _, ok := spec.Type.(*ast.InterfaceType); ok {
		return errors.TargetInterface
	}
	return errors.TargetType
}

// receiverTypeName unwraps pointers and type parameter lists from a receiver type
func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.ParenExpr:
		return receiverTypeName(t.X)
	case *ast.IndexExpr:
		return receiverTypeName(t.X)
	case *ast.IndexListExpr:
		return receiverTypeName(t.X)
	case *ast.Ident:
		return t.Name
	default:
		return ""
	}
}

func fieldName(field *ast.Field) string {
	if len(field.Names) == 0 {
		// embedded
		return types.ExprString(field.Type)
	}
	names := make([]string, len(field.Names))
	for i, name := range field.Names {
		names[i] = name.Name
	}
	return strings.Join(names, ",")
}

func valueNames(spec *ast.ValueSpec) string {
	names := make([]string, len(spec.Names))
	for i, name := range spec.Names {
		names[i] = name.Name
	}
	return strings.Join(names, ",")
}
