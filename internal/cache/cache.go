package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/jhjeon/askresume/internal/config"
)

// Cache maps a question to a generated answer, keyed by the exact question
// string. Callers treat both operations as best-effort: a failed Get is a
// miss, a failed Put is logged and swallowed. Entries never expire; the
// corpus is static, so answers do not go stale.
type Cache interface {
	Get(ctx context.Context, question string) (string, bool, error)
	Put(ctx context.Context, question string, answer string) error
}

type Args struct {
	DB   *sqlx.DB
	Size int
}

type Factory func(args Args) (Cache, error)

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

func New(cfg config.CacheConfig, args Args) (Cache, error) {
	key := strings.ToLower(strings.TrimSpace(cfg.Type))
	if key == "" {
		return nil, fmt.Errorf("cache.type is required")
	}
	registryMu.RLock()
	factory := registry[key]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.Type)
	}
	if args.Size == 0 {
		args.Size = cfg.Size
	}
	return factory(args)
}
