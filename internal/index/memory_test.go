package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhjeon/askresume/internal/model"
)

func loadedMemoryIndex(t *testing.T) Index {
	t.Helper()
	idx, err := createMemoryIndex(Args{Dimension: 3})
	require.NoError(t, err)
	passages := []model.Passage{
		{Text: "payment gateway project", Embedding: []float32{1, 0, 0}, Metadata: map[string]interface{}{
			"project": "PayGate", "category": "project", "skills": []interface{}{"Go", "Redis"},
		}},
		{Text: "education history", Embedding: []float32{0, 1, 0}, Metadata: map[string]interface{}{
			"category": "education",
		}},
		{Text: "search platform project", Embedding: []float32{0.9, 0.1, 0}, Metadata: map[string]interface{}{
			"project": "FindIt", "category": "project", "skills": []interface{}{"Python"},
		}},
	}
	require.NoError(t, idx.Load(context.Background(), passages))
	return idx
}

func TestMemoryIndex_SearchOrdersByScore(t *testing.T) {
	idx := loadedMemoryIndex(t)
	entries, err := idx.Search(context.Background(), []float32{1, 0, 0}, 2, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "payment gateway project", entries[0].Passage.Text)
	require.Equal(t, "search platform project", entries[1].Passage.Text)
	require.Greater(t, entries[0].Score, entries[1].Score)
}

func TestMemoryIndex_SearchWithFilters(t *testing.T) {
	idx := loadedMemoryIndex(t)
	entries, err := idx.Search(context.Background(), []float32{1, 0, 0}, 3, []Filter{
		{Attribute: "category", Value: "project"},
		{Attribute: "skills", Value: "go"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "payment gateway project", entries[0].Passage.Text)
}

func TestMemoryIndex_FewerMatchesThanK(t *testing.T) {
	idx := loadedMemoryIndex(t)
	entries, err := idx.Search(context.Background(), []float32{0, 1, 0}, 10, []Filter{
		{Attribute: "category", Value: "education"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestMemoryIndex_SearchBeforeLoad(t *testing.T) {
	idx, err := createMemoryIndex(Args{Dimension: 3})
	require.NoError(t, err)
	_, err = idx.Search(context.Background(), []float32{1, 0, 0}, 3, nil)
	require.Error(t, err)
}

func TestMemoryIndex_LoadRejectsWrongDimension(t *testing.T) {
	idx, err := createMemoryIndex(Args{Dimension: 3})
	require.NoError(t, err)
	err = idx.Load(context.Background(), []model.Passage{
		{Text: "bad", Embedding: []float32{1, 0}},
	})
	require.Error(t, err)
}

func TestMatchesFilters_UnknownAttribute(t *testing.T) {
	meta := map[string]interface{}{"category": "project"}
	require.False(t, MatchesFilters(meta, []Filter{{Attribute: "role", Value: "backend"}}))
	require.True(t, MatchesFilters(meta, nil))
}
