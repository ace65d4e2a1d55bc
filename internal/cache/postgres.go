package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// postgresCache shares answers across execution contexts. Last write wins;
// two concurrent misses for the same question both generate and the later
// Put overwrites, which is accepted.
type postgresCache struct {
	db *sqlx.DB
}

func init() {
	Register("postgres", createPostgresCache)
}

func createPostgresCache(args Args) (Cache, error) {
	if args.DB == nil {
		return nil, fmt.Errorf("postgres cache requires a database")
	}
	return &postgresCache{db: args.DB}, nil
}

func (p *postgresCache) Get(ctx context.Context, question string) (string, bool, error) {
	const query = `SELECT answer FROM answer_cache WHERE question = $1`
	var answer string
	if err := p.db.GetContext(ctx, &answer, query, question); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return answer, true, nil
}

func (p *postgresCache) Put(ctx context.Context, question string, answer string) error {
	const query = `
		INSERT INTO answer_cache (question, answer, ctime)
		VALUES ($1, $2, $3)
		ON CONFLICT (question) DO UPDATE SET
			answer = EXCLUDED.answer,
			ctime = EXCLUDED.ctime
	`
	_, err := p.db.ExecContext(ctx, query, question, answer, time.Now().UnixMilli())
	return err
}
