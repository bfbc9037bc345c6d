package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/effective-security/toolbox/api"
	"github.com/effective-security/toolbox/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManifest(tools ...string) *api.ManifestSchema {
	m := &api.ManifestSchema{
		ServerVersion: "0.5.0",
		Tools:         map[string]api.ToolSchema{},
	}
	for _, name := range tools {
		m.Tools[name] = api.ToolSchema{
			Description: "Tool " + name,
			Parameters: []api.ParameterSchema{
				{Name: "query", Type: "string", Required: true},
			},
		}
	}
	return m
}

func Test_MemoryStore(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	// miss on empty store
	got, err := st.Get(ctx, "tool/search_flights")
	require.NoError(t, err)
	assert.Nil(t, got)

	manifest := testManifest("search_flights")
	require.NoError(t, st.Set(ctx, "tool/search_flights", manifest, 0))

	got, err = st.Get(ctx, "tool/search_flights")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, manifest, got)

	// keys are independent
	got, err = st.Get(ctx, "toolset/search_flights")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, st.Delete(ctx, "tool/search_flights"))
	got, err = st.Get(ctx, "tool/search_flights")
	require.NoError(t, err)
	assert.Nil(t, got)

	// delete of a missing key is a no-op
	require.NoError(t, st.Delete(ctx, "tool/search_flights"))
}

func Test_MemoryStore_TTL(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	manifest := testManifest("search_flights")
	require.NoError(t, st.Set(ctx, "tool/search_flights", manifest, time.Millisecond))

	time.Sleep(5 * time.Millisecond)
	got, err := st.Get(ctx, "tool/search_flights")
	require.NoError(t, err)
	assert.Nil(t, got)

	// zero TTL does not expire
	require.NoError(t, st.Set(ctx, "tool/search_flights", manifest, 0))
	time.Sleep(2 * time.Millisecond)
	got, err = st.Get(ctx, "tool/search_flights")
	require.NoError(t, err)
	assert.NotNil(t, got)
}
