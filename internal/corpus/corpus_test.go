package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ZeroVectorFallback(t *testing.T) {
	path := writeCorpus(t, `[
		{"text": "backend project", "embedding": [0.1, 0.2, 0.3], "metadata": {"category": "project"}},
		{"text": "embedding batch failed here", "embedding": [], "metadata": {}}
	]`)
	passages, err := Load(path, 3)
	require.NoError(t, err)
	require.Len(t, passages, 2)
	require.Equal(t, []float32{0.1, 0.2, 0.3}, passages[0].Embedding)
	require.Equal(t, []float32{0, 0, 0}, passages[1].Embedding)
}

func TestLoad_DimensionMismatchIsFatal(t *testing.T) {
	path := writeCorpus(t, `[{"text": "bad", "embedding": [0.1, 0.2], "metadata": {}}]`)
	_, err := Load(path, 3)
	require.Error(t, err)
	require.Contains(t, err.Error(), "dimension")
}

func TestLoad_EmptyCorpus(t *testing.T) {
	path := writeCorpus(t, `[]`)
	_, err := Load(path, 3)
	require.Error(t, err)
}

func TestLoad_MissingText(t *testing.T) {
	path := writeCorpus(t, `[{"text": "", "embedding": [0.1, 0.2, 0.3], "metadata": {}}]`)
	_, err := Load(path, 3)
	require.Error(t, err)
}
