package lifecycle

import (
	"fmt"
	"go/token"
	"strings"
)

// Naming constants shared by lifecyclegen and the scan path. Both sides must agree,
// otherwise adapters are compiled in but never found.
const (
	ProxyNamespace = "lifecycleproxy"
	ProxyPrefix    = "Lifecycle"
	ProxySuffix    = "Proxy"
)

// Naming groups the namespace and the affixes used to derive adapter names.
type Naming struct {
	Namespace string
	Prefix    string
	Suffix    string
}

// DefaultNaming returns the naming built from the package constants.
func DefaultNaming() Naming {
	return Naming{
		Namespace: ProxyNamespace,
		Prefix:    ProxyPrefix,
		Suffix:    ProxySuffix,
	}
}

// ProxySimpleName derives the adapter type name for a wrapped type.
func (n Naming) ProxySimpleName(simpleName string) string {
	return n.Prefix + simpleName + n.Suffix
}

// ProxyFullName derives the namespaced adapter name for a wrapped type.
func (n Naming) ProxyFullName(simpleName string) string {
	return n.Namespace + "." + n.ProxySimpleName(simpleName)
}

// Matches reports whether fullName names an adapter under this naming.
func (n Naming) Matches(fullName string) bool {
	simple, ok := strings.CutPrefix(fullName, n.Namespace+".")
	if !ok {
		return false
	}
	if len(simple) <= len(n.Prefix)+len(n.Suffix) {
		return false
	}
	return strings.HasPrefix(simple, n.Prefix) && strings.HasSuffix(simple, n.Suffix)
}

// Validate checks that the namespace is a usable package name and that the affixes
// keep adapter names valid identifiers.
func (n Naming) Validate() error {
	if n.Namespace == "" {
		return fmt.Errorf("proxy namespace cannot be empty")
	}
	if !token.IsIdentifier(n.Namespace) {
		return fmt.Errorf("proxy namespace %q is not a valid package name", n.Namespace)
	}
	// "X" stands in for the wrapped type name.
	if name := n.ProxySimpleName("X"); !token.IsIdentifier(name) || !token.IsExported(name) {
		return fmt.Errorf("prefix %q and suffix %q do not form an exported identifier", n.Prefix, n.Suffix)
	}
	return nil
}

func (n Naming) String() string {
	return n.ProxyFullName("<Type>")
}
