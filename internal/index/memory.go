package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/jhjeon/askresume/internal/model"
)

// memoryIndex is the in-process backend. The whole corpus fits in memory, so
// search is a linear cosine scan over every entry.
type memoryIndex struct {
	mu        sync.RWMutex
	dimension int
	entries   []Entry
	loaded    bool
}

func init() {
	Register("memory", createMemoryIndex)
}

func createMemoryIndex(args Args) (Index, error) {
	if args.Dimension <= 0 {
		return nil, fmt.Errorf("memory index requires a positive dimension")
	}
	return &memoryIndex{dimension: args.Dimension}, nil
}

func (m *memoryIndex) Load(ctx context.Context, passages []model.Passage) error {
	_ = ctx
	entries := make([]Entry, 0, len(passages))
	for i, p := range passages {
		if len(p.Embedding) != m.dimension {
			return fmt.Errorf("passage %d: embedding dimension %d, index expects %d", i, len(p.Embedding), m.dimension)
		}
		entries = append(entries, Entry{ID: i, Passage: p})
	}
	m.mu.Lock()
	m.entries = entries
	m.loaded = true
	m.mu.Unlock()
	return nil
}

func (m *memoryIndex) Search(ctx context.Context, vector []float32, k int, filters []Filter) ([]Entry, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.loaded {
		return nil, fmt.Errorf("memory index not loaded")
	}
	if k <= 0 {
		return nil, nil
	}
	matches := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		if !MatchesFilters(e.Passage.Metadata, filters) {
			continue
		}
		e.Score = cosineSimilarity(vector, e.Passage.Embedding)
		matches = append(matches, e)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k], nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
