package client_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/effective-security/toolbox/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "toolbox.yaml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	return file
}

func Test_LoadConfig(t *testing.T) {
	cfg, err := client.LoadConfig("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Servers)

	file := writeConfig(t, `
servers:
  - name: local
    url: http://127.0.0.1:5000
    toolset: my-toolset
  - name: prod
    url: https://toolbox.example.com
`)
	cfg, err = client.LoadConfig(file)
	require.NoError(t, err)
	require.Len(t, cfg.Servers, 2)
	assert.Equal(t, "local", cfg.Servers[0].Name)
	assert.Equal(t, "my-toolset", cfg.Servers[0].Toolset)
	assert.Equal(t, "https://toolbox.example.com", cfg.Servers[1].URL)

	// missing URL fails validation
	file = writeConfig(t, `
servers:
  - name: local
`)
	_, err = client.LoadConfig(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid server configuration: "local"`)
}

func Test_Factory(t *testing.T) {
	server := newToolboxServer(t, nil)
	ctx := context.Background()

	file := writeConfig(t, `
servers:
  - name: local
    url: `+server.URL+`
    toolset: my-toolset
`)
	f, err := client.Load(file)
	require.NoError(t, err)
	defer f.Close()

	c1, err := f.DefaultClient()
	require.NoError(t, err)

	// clients are cached by name
	c2, err := f.ClientByName("local")
	require.NoError(t, err)
	assert.Same(t, c1, c2)

	_, err = f.ClientByName("unknown")
	assert.EqualError(t, err, "server not found for name: unknown")

	// LoadTools uses the configured toolset of the server
	tools, err := f.LoadTools(ctx, "local")
	require.NoError(t, err)
	require.Len(t, tools, 2)
	assert.Equal(t, "another_tool", tools[0].Name())
	assert.Equal(t, "row_tool", tools[1].Name())

	_, err = f.LoadTools(ctx, "unknown")
	assert.EqualError(t, err, "server not found for name: unknown")

	require.NoError(t, f.Close())
}

func Test_Factory_NoServers(t *testing.T) {
	f := client.NewFactory(&client.Config{})
	_, err := f.DefaultClient()
	assert.EqualError(t, err, "no servers configured")
	assert.NoError(t, f.Close())
}
