package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhjeon/askresume/internal/ai"
	"github.com/jhjeon/askresume/internal/model"
	appErr "github.com/jhjeon/askresume/internal/pkg/errors"
)

// AnswerGenerator stuffs every retrieved passage into one prompt and makes a
// single completion call. No map-reduce, no multi-turn refinement; the
// corpus is small enough that top-k always fits.
type AnswerGenerator struct {
	gen     ai.IGenerator
	prompts PromptSet
}

func NewAnswerGenerator(gen ai.IGenerator, prompts PromptSet) *AnswerGenerator {
	return &AnswerGenerator{gen: gen, prompts: prompts}
}

func (g *AnswerGenerator) Generate(ctx context.Context, question string, passages []model.Passage) (string, error) {
	texts := make([]string, 0, len(passages))
	for _, p := range passages {
		texts = append(texts, p.Text)
	}
	prompt := strings.ReplaceAll(g.prompts.Answer, "{context}", strings.Join(texts, "\n\n"))
	prompt = strings.ReplaceAll(prompt, "{question}", question)
	resp, err := g.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: generate answer: %v", appErr.ErrUpstream, err)
	}
	answer := strings.TrimSpace(resp)
	if answer == "" {
		return g.prompts.FallbackAnswer, nil
	}
	return answer, nil
}
