package repo

import (
	"context"
	"fmt"

	"ministudio/internal/domain"
	"ministudio/internal/infra"
	"ministudio/internal/sqlinline"
)

// GenerationRepositoryPG persists generation history in PostgreSQL. The
// studio runs fine without it; history is strictly additive.
type GenerationRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewGenerationRepository creates a history repository backed by PostgreSQL.
func NewGenerationRepository(sql infra.SQLExecutor) *GenerationRepositoryPG {
	return &GenerationRepositoryPG{sql: sql}
}

// EnsureSchema creates the generations table when missing.
func (r *GenerationRepositoryPG) EnsureSchema(ctx context.Context) error {
	if _, err := r.sql.Exec(ctx, "ensure_generations", sqlinline.QEnsureGenerationsTable); err != nil {
		return fmt.Errorf("repo: ensure generations table: %w", err)
	}
	return nil
}

// Record inserts one finished generation.
func (r *GenerationRepositoryPG) Record(ctx context.Context, artifact domain.VideoArtifact) error {
	_, err := r.sql.Exec(ctx, "insert_generation", sqlinline.QInsertGeneration,
		artifact.ID,
		artifact.Prompt,
		artifact.Provider,
		artifact.StorageKey,
		artifact.Format,
		artifact.Bytes,
		artifact.Duration,
		artifact.Seed,
		artifact.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("repo: insert generation: %w", err)
	}
	return nil
}

// ListRecent returns up to limit generations, newest first.
func (r *GenerationRepositoryPG) ListRecent(ctx context.Context, limit int) ([]domain.VideoArtifact, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.sql.Query(ctx, "select_recent_generations", sqlinline.QSelectRecentGenerations, limit)
	if err != nil {
		return nil, fmt.Errorf("repo: list generations: %w", err)
	}
	defer rows.Close()

	var items []domain.VideoArtifact
	for rows.Next() {
		var a domain.VideoArtifact
		if err := rows.Scan(&a.ID, &a.Prompt, &a.Provider, &a.StorageKey, &a.Format, &a.Bytes, &a.Duration, &a.Seed, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("repo: scan generation: %w", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo: iterate generations: %w", err)
	}
	return items, nil
}
