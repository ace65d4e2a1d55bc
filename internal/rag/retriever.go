package rag

import (
	"context"
	"fmt"

	"github.com/jhjeon/askresume/internal/ai"
	"github.com/jhjeon/askresume/internal/config"
	"github.com/jhjeon/askresume/internal/index"
	"github.com/jhjeon/askresume/internal/model"
	appErr "github.com/jhjeon/askresume/internal/pkg/errors"
)

// Retriever returns the passages most relevant to a question, at most topK
// of them. Fewer matches than topK is normal, never an error.
type Retriever interface {
	Retrieve(ctx context.Context, question string) ([]model.Passage, error)
}

func NewRetriever(cfg config.RetrieverConfig, embedder ai.IEmbedder, gen ai.IGenerator, idx index.Index, prompts PromptSet) (Retriever, error) {
	base := &similarityRetriever{
		embedder: embedder,
		idx:      idx,
		topK:     cfg.TopK,
	}
	switch cfg.Type {
	case "similarity":
		return base, nil
	case "self_query":
		return &selfQueryRetriever{
			base:    base,
			gen:     gen,
			prompts: prompts,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported retriever type: %s", cfg.Type)
	}
}

type similarityRetriever struct {
	embedder ai.IEmbedder
	idx      index.Index
	topK     int
}

func (r *similarityRetriever) Retrieve(ctx context.Context, question string) ([]model.Passage, error) {
	return r.retrieve(ctx, question, nil)
}

func (r *similarityRetriever) retrieve(ctx context.Context, query string, filters []index.Filter) ([]model.Passage, error) {
	vector, err := r.embedder.Embed(ctx, query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", appErr.ErrUpstream, err)
	}
	entries, err := r.idx.Search(ctx, vector, r.topK, filters)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErr.ErrIndexUnavailable, err)
	}
	passages := make([]model.Passage, 0, len(entries))
	for _, entry := range entries {
		passages = append(passages, entry.Passage)
	}
	return passages, nil
}
