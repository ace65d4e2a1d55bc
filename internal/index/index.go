package index

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/jhjeon/askresume/internal/config"
	"github.com/jhjeon/askresume/internal/model"
)

// Filter is one structured predicate over passage metadata. String
// attributes match case-insensitively; list attributes (skills) match when
// any element matches.
type Filter struct {
	Attribute string
	Value     string
}

// Entry is a search hit. IDs are assigned 0..N-1 at load time and are not
// stable across reloads.
type Entry struct {
	ID      int
	Score   float32
	Passage model.Passage
}

type Index interface {
	// Load replaces the index contents with the given passages.
	Load(ctx context.Context, passages []model.Passage) error
	// Search returns up to k entries ordered by descending cosine
	// similarity to vector, restricted to entries matching all filters.
	Search(ctx context.Context, vector []float32, k int, filters []Filter) ([]Entry, error)
}

type Args struct {
	DB        *sqlx.DB
	Dimension int
}

type Factory func(args Args) (Index, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registryMu.Lock()
	registry[key] = factory
	registryMu.Unlock()
}

func New(cfg config.IndexConfig, args Args) (Index, error) {
	key := strings.ToLower(strings.TrimSpace(cfg.Type))
	if key == "" {
		return nil, fmt.Errorf("index.type is required")
	}
	registryMu.RLock()
	factory := registry[key]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unsupported index type: %s", cfg.Type)
	}
	return factory(args)
}

func matchesMetadata(meta map[string]interface{}, f Filter) bool {
	value, ok := meta[f.Attribute]
	if !ok {
		return false
	}
	switch v := value.(type) {
	case string:
		return strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(f.Value))
	case []interface{}:
		for _, item := range v {
			s, ok := item.(string)
			if ok && strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(f.Value)) {
				return true
			}
		}
		return false
	case []string:
		for _, s := range v {
			if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(f.Value)) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// MatchesFilters reports whether the metadata satisfies every filter.
func MatchesFilters(meta map[string]interface{}, filters []Filter) bool {
	for _, f := range filters {
		if !matchesMetadata(meta, f) {
			return false
		}
	}
	return true
}
