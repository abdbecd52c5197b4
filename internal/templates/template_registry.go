package templates

import (
	"text/template"
)

const (
	// AdapterTemplateName renders one adapter compilation unit
	AdapterTemplateName = "adapter"
	// ManifestTemplateName renders the manifest listing every adapter
	ManifestTemplateName = "manifest"
)

// TemplateRegistry provides a centralized way to access all parsed templates
type TemplateRegistry struct {
	templates map[string]*template.Template
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]*template.Template),
	}

	registry.register(AdapterTemplateName, AdapterTemplate)
	registry.register(ManifestTemplateName, ManifestTemplate)

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (*template.Template, bool) {
	tmpl, exists := tr.templates[name]
	return tmpl, exists
}

func (tr *TemplateRegistry) register(name, text string) {
	tr.templates[name] = template.Must(template.New(name).Parse(text))
}

// DefaultTemplateRegistry is the global template registry instance
var DefaultTemplateRegistry = NewTemplateRegistry()
