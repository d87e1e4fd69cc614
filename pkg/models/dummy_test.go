package models

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDummyLLMConsumesRepliesInOrder(t *testing.T) {
	d := NewDummyLLM("first", "second")
	ctx := context.Background()

	r, err := d.Generate(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "first", r)

	r, err = d.Generate(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, "second", r)

	// The last reply repeats once the script runs out.
	r, err = d.Generate(ctx, "p3")
	require.NoError(t, err)
	assert.Equal(t, "second", r)

	assert.Equal(t, []string{"p1", "p2", "p3"}, d.Prompts)
}

func TestNewProviderDummy(t *testing.T) {
	a, err := NewProvider(context.Background(), "dummy", "")
	require.NoError(t, err)
	assert.IsType(t, &DummyLLM{}, a)
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider(context.Background(), "mystery", "")
	assert.Error(t, err)
}
