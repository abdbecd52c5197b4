package templates

import (
	"bytes"
	"fmt"
)

// GeneratedHeader is the first line of every file lifecyclegen writes
const GeneratedHeader = "// Code generated by lifecyclegen. DO NOT EDIT."

// AdapterData is the input of AdapterTemplate
type AdapterData struct {
	Namespace       string // package name of the generated file
	Imports         string // rendered import section
	RuntimeName     string // identifier of the runtime contract package
	Qualifier       string // identifier of the wrapped type's package
	SimpleName      string // wrapped type name
	ProxySimpleName string
	ProxyFullName   string
}

// ManifestData is the input of ManifestTemplate
type ManifestData struct {
	Namespace   string
	Imports     string
	RuntimeName string
	Proxies     []string // adapter type names, in registration order
}

// AdapterTemplate wraps one marked type so it can be discovered by name
const AdapterTemplate = GeneratedHeader + `

package {{.Namespace}}

{{.Imports}}
// {{.ProxySimpleName}} forwards lifecycle hooks to {{.Qualifier}}.{{.SimpleName}}.
type {{.ProxySimpleName}} struct {
	participant *{{.Qualifier}}.{{.SimpleName}}
}

var _ {{.RuntimeName}}.Participant = (*{{.ProxySimpleName}})(nil)

// New{{.ProxySimpleName}} creates the adapter and the zero value it wraps.
func New{{.ProxySimpleName}}() *{{.ProxySimpleName}} {
	return &{{.ProxySimpleName}}{participant: new({{.Qualifier}}.{{.SimpleName}})}
}

func (p *{{.ProxySimpleName}}) Priority() int {
	return p.participant.Priority()
}

func (p *{{.ProxySimpleName}}) OnStart(ctx context.Context) error {
	return p.participant.OnStart(ctx)
}

func (p *{{.ProxySimpleName}}) OnStop() error {
	return p.participant.OnStop()
}

func init() {
	{{.RuntimeName}}.DefaultCatalog.Provide("{{.ProxyFullName}}", func() any {
		return New{{.ProxySimpleName}}()
	})
}
`

// ManifestTemplate lists every adapter of the namespace for the injection path
const ManifestTemplate = GeneratedHeader + `

package {{.Namespace}}

{{.Imports}}
// Manifest returns a new instance of every adapter in this package, ordered by name.
func Manifest() []{{.RuntimeName}}.Participant {
{{- if .Proxies}}
	return []{{.RuntimeName}}.Participant{
{{- range .Proxies}}
		New{{.}}(),
{{- end}}
	}
{{- else}}
	return nil
{{- end}}
}

// Register adds every adapter in this package to r through the injection path.
func Register(r *{{.RuntimeName}}.Registry) error {
	return r.RegisterAll(Manifest()...)
}
`

// RenderAdapter renders an adapter compilation unit
func RenderAdapter(data AdapterData) (string, error) {
	return executeTemplate(AdapterTemplateName, data)
}

// RenderManifest renders the manifest compilation unit
func RenderManifest(data ManifestData) (string, error) {
	return executeTemplate(ManifestTemplateName, data)
}

// executeTemplate executes a registered template with the given data
func executeTemplate(name string, data interface{}) (string, error) {
	tmpl, ok := DefaultTemplateRegistry.Get(name)
	if !ok {
		return "", fmt.Errorf("template %s is not registered", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
