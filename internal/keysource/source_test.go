package keysource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhjeon/askresume/internal/config"
)

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.txt")
	require.NoError(t, os.WriteFile(path, []byte("  sk-test-key \n"), 0o600))

	source, err := New(config.KeySourceConfig{Type: "file", Data: map[string]interface{}{"path": path}})
	require.NoError(t, err)
	key, err := source.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, "sk-test-key", key)
}

func TestFileSource_EmptyKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0o600))

	source, err := New(config.KeySourceConfig{Type: "file", Data: map[string]interface{}{"path": path}})
	require.NoError(t, err)
	_, err = source.Fetch(context.Background())
	require.Error(t, err)
}

func TestEnvSource(t *testing.T) {
	t.Setenv("ASKRESUME_TEST_KEY", "sk-env-key")
	source, err := New(config.KeySourceConfig{Type: "env", Data: map[string]interface{}{"name": "ASKRESUME_TEST_KEY"}})
	require.NoError(t, err)
	key, err := source.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, "sk-env-key", key)
}

func TestEnvSource_DefaultName(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-default")
	source, err := New(config.KeySourceConfig{Type: "env"})
	require.NoError(t, err)
	key, err := source.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, "sk-default", key)
}

func TestNew_UnsupportedType(t *testing.T) {
	_, err := New(config.KeySourceConfig{Type: "vault"})
	require.Error(t, err)
}
