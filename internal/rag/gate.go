package rag

import (
	"context"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/jhjeon/askresume/internal/ai"
)

// RelevanceGate classifies whether a question is about the resume at all.
type RelevanceGate struct {
	gen     ai.IGenerator
	prompts PromptSet
}

func NewRelevanceGate(gen ai.IGenerator, prompts PromptSet) *RelevanceGate {
	return &RelevanceGate{gen: gen, prompts: prompts}
}

// IsRelevant fails open: when the classification call itself errors, the
// question is treated as relevant. Refusing an in-domain question is worse
// than running the pipeline on a borderline one.
func (g *RelevanceGate) IsRelevant(ctx context.Context, question string) bool {
	prompt := strings.ReplaceAll(g.prompts.Relevance, "{question}", question)
	resp, err := g.gen.Generate(ctx, prompt)
	if err != nil {
		logutil.GetLogger(ctx).Warn("relevance check failed, assuming relevant", zap.Error(err))
		return true
	}
	answer := strings.ToLower(strings.TrimSpace(resp))
	logutil.GetLogger(ctx).Debug("relevance decision", zap.String("answer", answer))
	return strings.Contains(answer, g.prompts.YesToken)
}
