package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `{
		"port": 8080,
		"subject_name": "Jaehyun Jeon",
		"corpus": {"path": "corpus.json"}
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "ko", cfg.Locale)
	require.Equal(t, 1536, cfg.Corpus.Dimension)
	require.Equal(t, "memory", cfg.Index.Type)
	require.Equal(t, "similarity", cfg.Retriever.Type)
	require.Equal(t, 3, cfg.Retriever.TopK)
	require.Equal(t, "memory", cfg.Cache.Type)
	require.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	require.Equal(t, "text-embedding-ada-002", cfg.AI.EmbedModel)
	require.InDelta(t, 0.7, cfg.AI.Temperature, 1e-9)
	require.False(t, cfg.Cache.SkipRead)
	require.False(t, cfg.NeedsDatabase())
}

func TestLoad_MissingRequiredFields(t *testing.T) {
	for name, content := range map[string]string{
		"port":    `{"subject_name": "a", "corpus": {"path": "c.json"}}`,
		"subject": `{"port": 1, "corpus": {"path": "c.json"}}`,
		"corpus":  `{"port": 1, "subject_name": "a"}`,
	} {
		path := writeConfig(t, content)
		_, err := Load(path)
		require.Error(t, err, name)
	}
}

func TestLoad_PgvectorRequiresDatabase(t *testing.T) {
	path := writeConfig(t, `{
		"port": 8080,
		"subject_name": "Jaehyun Jeon",
		"corpus": {"path": "corpus.json"},
		"index": {"type": "pgvector"}
	}`)
	_, err := Load(path)
	require.Error(t, err)

	path = writeConfig(t, `{
		"port": 8080,
		"subject_name": "Jaehyun Jeon",
		"corpus": {"path": "corpus.json"},
		"index": {"type": "pgvector"},
		"database": {"dsn": "postgres://localhost/resume"}
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.True(t, cfg.NeedsDatabase())
}

func TestLoad_RejectsUnknownBackends(t *testing.T) {
	path := writeConfig(t, `{
		"port": 8080,
		"subject_name": "Jaehyun Jeon",
		"corpus": {"path": "corpus.json"},
		"retriever": {"type": "mapreduce"}
	}`)
	_, err := Load(path)
	require.Error(t, err)
}
