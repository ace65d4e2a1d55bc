package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/jhjeon/askresume/internal/cache"
	appErr "github.com/jhjeon/askresume/internal/pkg/errors"
	"github.com/jhjeon/askresume/internal/rag"
)

type State int32

const (
	StateUninitialized State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

type Options struct {
	Gate      *rag.RelevanceGate
	Retriever rag.Retriever
	Generator *rag.AnswerGenerator
	Cache     cache.Cache
	Prompts   rag.PromptSet
	// SkipCacheRead preserves the deployment variant that never reads the
	// cache but still writes it. Not a bug; a rollout generation relied on
	// always-fresh answers while keeping the cache warm.
	SkipCacheRead bool
	// Initialize loads the corpus into the vector index. Runs lazily before
	// the first request and is re-attempted after failure; it must be safe
	// to call again.
	Initialize func(ctx context.Context) error
}

// AnswerService runs the whole pipeline for one question: relevance gate,
// cache lookup, retrieval, generation, cache write.
type AnswerService struct {
	opts Options

	initMu sync.Mutex
	state  State
}

func NewAnswerService(opts Options) *AnswerService {
	return &AnswerService{opts: opts, state: StateUninitialized}
}

func (s *AnswerService) State() State {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	return s.state
}

// EnsureReady performs lazy initialization. A failed attempt leaves the
// service in a retriable failed state, not a poisoned one; the next call
// tries again.
func (s *AnswerService) EnsureReady(ctx context.Context) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.state == StateReady {
		return nil
	}
	if s.opts.Initialize != nil {
		if err := s.opts.Initialize(ctx); err != nil {
			s.state = StateFailed
			logutil.GetLogger(ctx).Error("service initialization failed", zap.Error(err))
			return fmt.Errorf("%w: %v", appErr.ErrNotReady, err)
		}
	}
	s.state = StateReady
	logutil.GetLogger(ctx).Info("service ready")
	return nil
}

// Answer runs the pipeline on the question exactly as received. The cache
// key is the raw string; trimming or case-folding here would change hit-rate
// semantics, so only emptiness is checked.
func (s *AnswerService) Answer(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", appErr.ErrInvalid
	}
	if err := s.EnsureReady(ctx); err != nil {
		return "", err
	}
	logger := logutil.GetLogger(ctx).With(zap.String("question", question))

	if !s.opts.Gate.IsRelevant(ctx, question) {
		logger.Info("question off topic")
		return s.opts.Prompts.OffTopicAnswer, nil
	}

	if !s.opts.SkipCacheRead {
		answer, ok, err := s.opts.Cache.Get(ctx, question)
		if err != nil {
			// A broken cache never blocks answering.
			logger.Warn("cache read failed, treating as miss", zap.Error(err))
		} else if ok {
			logger.Info("cache hit")
			return answer, nil
		}
	}
	logger.Info("cache miss")

	passages, err := s.opts.Retriever.Retrieve(ctx, question)
	if err != nil {
		return "", err
	}
	answer, err := s.opts.Generator.Generate(ctx, question, passages)
	if err != nil {
		return "", err
	}
	if err := s.opts.Cache.Put(ctx, question, answer); err != nil {
		// The answer was generated; failing to cache it is not a reason
		// to fail the request.
		logger.Warn("cache write failed", zap.Error(err))
	}
	return answer, nil
}
