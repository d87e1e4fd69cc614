package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedTool struct {
	name string
}

func (t *namedTool) Spec() ToolSpec {
	return ToolSpec{Name: t.name}
}

func (t *namedTool) Invoke(_ context.Context, _ map[string]any) (map[string]any, error) {
	return map[string]any{"tool": t.name}, nil
}

func TestCatalogRegisterAndLookup(t *testing.T) {
	c := NewCatalog(&namedTool{name: "alpha"}, &namedTool{name: "beta"})

	_, spec, ok := c.Lookup("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", spec.Name)

	// Lookup is case-insensitive.
	_, _, ok = c.Lookup("ALPHA")
	assert.True(t, ok)

	_, _, ok = c.Lookup("missing")
	assert.False(t, ok)
}

func TestCatalogDuplicateRegistration(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.Register(&namedTool{name: "alpha"}))
	assert.Error(t, c.Register(&namedTool{name: "Alpha"}))
}

func TestCatalogSpecsPreserveRegistrationOrder(t *testing.T) {
	c := NewCatalog(&namedTool{name: "zeta"}, &namedTool{name: "alpha"}, &namedTool{name: "mid"})

	specs := c.Specs()
	require.Len(t, specs, 3)
	assert.Equal(t, "zeta", specs[0].Name)
	assert.Equal(t, "alpha", specs[1].Name)
	assert.Equal(t, "mid", specs[2].Name)
}
