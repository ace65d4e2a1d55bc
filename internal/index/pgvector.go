package index

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"

	"github.com/jhjeon/askresume/internal/model"
)

// pgvectorIndex keeps passages in a Postgres table with a pgvector column.
// Useful when several warm execution contexts should share one index instead
// of each loading its own copy.
type pgvectorIndex struct {
	db        *sqlx.DB
	dimension int
}

func init() {
	Register("pgvector", createPgvectorIndex)
}

func createPgvectorIndex(args Args) (Index, error) {
	if args.DB == nil {
		return nil, fmt.Errorf("pgvector index requires a database")
	}
	if args.Dimension <= 0 {
		return nil, fmt.Errorf("pgvector index requires a positive dimension")
	}
	return &pgvectorIndex{db: args.DB, dimension: args.Dimension}, nil
}

func (p *pgvectorIndex) Load(ctx context.Context, passages []model.Passage) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `TRUNCATE passages`); err != nil {
		return err
	}
	const insert = `
		INSERT INTO passages (id, text, metadata, embedding)
		VALUES ($1, $2, $3, $4)
	`
	for i, passage := range passages {
		if len(passage.Embedding) != p.dimension {
			return fmt.Errorf("passage %d: embedding dimension %d, index expects %d", i, len(passage.Embedding), p.dimension)
		}
		meta, err := json.Marshal(passage.Metadata)
		if err != nil {
			return fmt.Errorf("encode passage %d metadata: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx, insert, i, passage.Text, meta, pgvector.NewVector(passage.Embedding)); err != nil {
			return fmt.Errorf("insert passage %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func (p *pgvectorIndex) Search(ctx context.Context, vector []float32, k int, filters []Filter) ([]Entry, error) {
	if k <= 0 {
		return nil, nil
	}
	query := `
		SELECT id, text, metadata, 1 - (embedding <=> $1) AS score
		FROM passages
	`
	args := []interface{}{pgvector.NewVector(vector)}
	for _, f := range filters {
		if f.Attribute == model.AttrSkills {
			args = append(args, f.Value)
			query += fmt.Sprintf(`
		%s EXISTS (
			SELECT 1 FROM jsonb_array_elements_text(metadata->'skills') AS skill
			WHERE lower(skill) = lower($%d)
		)`, clausePrefix(len(args)-1), len(args))
			continue
		}
		args = append(args, f.Attribute, f.Value)
		query += fmt.Sprintf(`
		%s lower(metadata->>$%d) = lower($%d)`, clausePrefix(len(args)-2), len(args)-1, len(args))
	}
	args = append(args, k)
	query += fmt.Sprintf(`
		ORDER BY embedding <=> $1
		LIMIT $%d
	`, len(args))

	rows, err := p.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var results []Entry
	for rows.Next() {
		var (
			entry Entry
			meta  []byte
		)
		if err := rows.Scan(&entry.ID, &entry.Passage.Text, &meta, &entry.Score); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(meta, &entry.Passage.Metadata); err != nil {
			return nil, err
		}
		results = append(results, entry)
	}
	return results, rows.Err()
}

// clausePrefix returns WHERE for the first condition, AND afterwards.
// firstArgIdx is the index of the condition's first bound argument; the
// query vector occupies index 0.
func clausePrefix(firstArgIdx int) string {
	if firstArgIdx == 1 {
		return "WHERE"
	}
	return "AND"
}
