package models

// ParticipantMetadata represents a type marked with //lifecycle::participant
type ParticipantMetadata struct {
	TypeName string   // name of the marked type
	File     string   // file containing the declaration
	Line     int      // line of the declaration
	Methods  []string // lifecycle hook methods declared on the type in its package
}

// HookMethods lists the methods an adapter forwards to
var HookMethods = []string{"Priority", "OnStart", "OnStop"}

// MissingHooks returns the hook methods not declared on the type in its package
func (p ParticipantMetadata) MissingHooks() []string {
	var missing []string
	for _, hook := range HookMethods {
		found := false
		for _, method := range p.Methods {
			if method == hook {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, hook)
		}
	}
	return missing
}

// ParticipantDescriptor identifies one marked type and the adapter generated for it
type ParticipantDescriptor struct {
	QualifiedName   string // import path and type name, e.g. example.com/app/db.Pool
	ImportPath      string // import path of the wrapped type's package
	PackageName     string // package name of the wrapped type
	SimpleName      string // wrapped type name
	ProxySimpleName string // adapter type name
	ProxyFullName   string // adapter name qualified by the namespace
	File            string // declaration file, for diagnostics
	Line            int    // declaration line, for diagnostics
}

// QualifiedName joins an import path and a type name
func QualifiedName(importPath, typeName string) string {
	return importPath + "." + typeName
}
