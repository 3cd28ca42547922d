package vectorstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps section embeddings in a pgvector table, one row per
// (run_id, section_index). Cosine distance via the `<=>` operator.
type PostgresStore struct {
	pool      *pgxpool.Pool
	dimension int
}

// NewPostgresStore connects to Postgres and verifies the connection.
func NewPostgresStore(ctx context.Context, connStr string, dimension int) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool, dimension: dimension}, nil
}

// Initialize creates the embeddings table and its indexes.
func (s *PostgresStore) Initialize(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS section_embeddings (
            run_id TEXT NOT NULL,
            section_index INTEGER NOT NULL,
            embedding vector(%d) NOT NULL,
            PRIMARY KEY (run_id, section_index)
        )
    `, s.dimension))
	if err != nil {
		return fmt.Errorf("create section_embeddings table: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS section_embeddings_run_idx
		ON section_embeddings (run_id)
	`)
	if err != nil {
		return fmt.Errorf("create run index: %w", err)
	}
	return nil
}

func (s *PostgresStore) Upsert(ctx context.Context, runID string, sectionIndex int, vector []float64) error {
	_, err := s.pool.Exec(ctx, `
        INSERT INTO section_embeddings (run_id, section_index, embedding)
        VALUES ($1, $2, $3)
        ON CONFLICT (run_id, section_index) DO UPDATE SET embedding = EXCLUDED.embedding
    `, runID, sectionIndex, vector)
	if err != nil {
		return fmt.Errorf("upsert embedding %s/%d: %w", runID, sectionIndex, err)
	}
	return nil
}

func (s *PostgresStore) QueryTopK(ctx context.Context, runID string, vector []float64, k int) ([]Candidate, error) {
	if k <= 0 {
		return nil, nil
	}
	// Cosine distance ascending is similarity descending; section_index
	// breaks ties deterministically.
	rows, err := s.pool.Query(ctx, `
		SELECT section_index, 1 - (embedding <=> $2) AS score
		FROM section_embeddings
		WHERE run_id = $1
		ORDER BY embedding <=> $2, section_index
		LIMIT $3
	`, runID, vector, k)
	if err != nil {
		return nil, fmt.Errorf("query similar sections: %w", err)
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.SectionIndex, &c.Score); err != nil {
			return nil, fmt.Errorf("scan candidate row: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidate rows: %w", err)
	}
	return candidates, nil
}

func (s *PostgresStore) DeleteRun(ctx context.Context, runID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM section_embeddings WHERE run_id = $1`, runID)
	if err != nil {
		return fmt.Errorf("delete run %s: %w", runID, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
