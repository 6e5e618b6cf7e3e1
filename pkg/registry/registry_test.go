package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ListsAllShippedProviders(t *testing.T) {
	reg := Default()
	require.Len(t, reg.Providers, 6)

	tm, ok := reg.Lookup("Ticketmaster")
	require.True(t, ok)
	assert.Equal(t, KindHTTP, tm.Kind)
	assert.Contains(t, tm.Credentials, "api_key")

	local, ok := reg.Lookup("Local")
	require.True(t, ok)
	assert.Equal(t, KindSynthetic, local.Kind)
	assert.Empty(t, local.Credentials)
}

func TestLookup_UnknownSource(t *testing.T) {
	_, ok := Default().Lookup("Nope")
	assert.False(t, ok)
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	content := `{"providers": [{"source": "Ticketmaster", "displayName": "TM", "kind": "http"}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	require.Len(t, reg.Providers, 1)
	assert.Equal(t, "Ticketmaster", reg.Providers[0].Source)
}

func TestLoadRegistry_Errors(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"providers": []}`), 0o644))
	_, err = LoadRegistry(path)
	assert.Error(t, err)
}
