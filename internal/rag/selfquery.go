package rag

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/jhjeon/askresume/internal/ai"
	"github.com/jhjeon/askresume/internal/index"
	"github.com/jhjeon/askresume/internal/model"
)

var knownAttributes = map[string]struct{}{
	model.AttrProject:     {},
	model.AttrCategory:    {},
	model.AttrType:        {},
	model.AttrRole:        {},
	model.AttrStartDate:   {},
	model.AttrSkills:      {},
	model.AttrAchievement: {},
}

// selfQueryRetriever asks the model to split a question into a semantic
// query plus structured metadata filters, then runs the usual similarity
// search restricted by those filters. Extraction is best-effort: on any
// failure it degrades to plain similarity search over the raw question.
type selfQueryRetriever struct {
	base    *similarityRetriever
	gen     ai.IGenerator
	prompts PromptSet
}

func (r *selfQueryRetriever) Retrieve(ctx context.Context, question string) ([]model.Passage, error) {
	query, filters := r.extract(ctx, question)
	return r.base.retrieve(ctx, query, filters)
}

func (r *selfQueryRetriever) extract(ctx context.Context, question string) (string, []index.Filter) {
	logger := logutil.GetLogger(ctx)
	prompt := strings.ReplaceAll(r.prompts.SelfQuery, "{question}", question)
	resp, err := r.gen.Generate(ctx, prompt)
	if err != nil {
		logger.Warn("self-query extraction failed, using plain similarity", zap.Error(err))
		return question, nil
	}
	query, filters, err := parseSelfQuery(resp)
	if err != nil {
		logger.Warn("self-query output unparseable, using plain similarity", zap.Error(err))
		return question, nil
	}
	if query == "" {
		query = question
	}
	logger.Debug("self-query extracted", zap.String("query", query), zap.Int("filters", len(filters)))
	return query, filters
}

type selfQueryOutput struct {
	Query   string            `json:"query"`
	Filters map[string]string `json:"filters"`
}

func parseSelfQuery(output string) (string, []index.Filter, error) {
	clean := strings.TrimSpace(output)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)
	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start >= 0 && end > start {
		clean = clean[start : end+1]
	}
	var parsed selfQueryOutput
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return "", nil, err
	}
	filters := make([]index.Filter, 0, len(parsed.Filters))
	for attr, value := range parsed.Filters {
		key := strings.ToLower(strings.TrimSpace(attr))
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		// Attributes the model invented are dropped rather than matched
		// against nothing.
		if _, ok := knownAttributes[key]; !ok {
			continue
		}
		filters = append(filters, index.Filter{Attribute: key, Value: value})
	}
	return strings.TrimSpace(parsed.Query), filters, nil
}
