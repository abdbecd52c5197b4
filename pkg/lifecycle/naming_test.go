package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNaming_ProxyNames(t *testing.T) {
	naming := DefaultNaming()

	assert.Equal(t, "LifecycleFooProxy", naming.ProxySimpleName("Foo"))
	assert.Equal(t, "lifecycleproxy.LifecycleFooProxy", naming.ProxyFullName("Foo"))
}

func TestNaming_CustomAffixes(t *testing.T) {
	naming := Naming{Namespace: "proxy", Prefix: "Heima", Suffix: "Adapter"}

	assert.Equal(t, "HeimaFooAdapter", naming.ProxySimpleName("Foo"))
	assert.Equal(t, "proxy.HeimaFooAdapter", naming.ProxyFullName("Foo"))
}

func TestNaming_Matches(t *testing.T) {
	naming := DefaultNaming()

	tests := []struct {
		name     string
		fullName string
		expected bool
	}{
		{"generated adapter", "lifecycleproxy.LifecycleFooProxy", true},
		{"other namespace", "otherproxy.LifecycleFooProxy", false},
		{"missing prefix", "lifecycleproxy.FooProxy", false},
		{"missing suffix", "lifecycleproxy.LifecycleFoo", false},
		{"affixes only", "lifecycleproxy.LifecycleProxy", false},
		{"no namespace", "LifecycleFooProxy", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, naming.Matches(tt.fullName))
		})
	}
}

func TestNaming_Validate(t *testing.T) {
	tests := []struct {
		name        string
		naming      Naming
		expectError bool
	}{
		{"defaults", DefaultNaming(), false},
		{"empty affixes", Naming{Namespace: "proxy"}, false},
		{"empty namespace", Naming{Prefix: "A", Suffix: "B"}, true},
		{"dotted namespace", Naming{Namespace: "com.hm.proxy", Prefix: "A"}, true},
		{"dollar prefix", Naming{Namespace: "proxy", Prefix: "Heima$$"}, true},
		{"unexported prefix", Naming{Namespace: "proxy", Prefix: "heima"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.naming.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
