package corpus

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jhjeon/askresume/internal/model"
)

// Load reads the static corpus file produced by the offline embedding batch
// and validates every embedding against the configured dimension. An entry
// with no embedding at all is kept with a zero vector so retrieval can still
// surface it through metadata filters; an entry with a wrong-sized embedding
// is a configuration error, not something to truncate quietly.
func Load(path string, dimension int) ([]model.Passage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	var passages []model.Passage
	if err := json.Unmarshal(data, &passages); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}
	if len(passages) == 0 {
		return nil, fmt.Errorf("corpus %s is empty", path)
	}
	for i := range passages {
		p := &passages[i]
		if p.Text == "" {
			return nil, fmt.Errorf("corpus entry %d has no text", i)
		}
		switch len(p.Embedding) {
		case dimension:
		case 0:
			p.Embedding = make([]float32, dimension)
		default:
			return nil, fmt.Errorf("corpus entry %d: embedding dimension %d, index expects %d", i, len(p.Embedding), dimension)
		}
	}
	return passages, nil
}

// Save writes passages back in the corpus file format. Used by the embed
// batch command.
func Save(path string, passages []model.Passage) error {
	data, err := json.MarshalIndent(passages, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
