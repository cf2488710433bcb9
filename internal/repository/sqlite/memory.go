package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sakif/memories-api/internal/apperror"
	"github.com/sakif/memories-api/internal/model"
	"github.com/sakif/memories-api/internal/repository"
)

// compile-time check that *MemoryRepo implements repository.MemoryRepository
var _ repository.MemoryRepository = (*MemoryRepo)(nil)

// MemoryRepo implements repository.MemoryRepository on top of a shared DB
// handle.
type MemoryRepo struct {
	db *DB
}

// NewMemoryRepo creates a MemoryRepo backed by db.
func NewMemoryRepo(db *DB) *MemoryRepo {
	return &MemoryRepo{db: db}
}

// Create inserts a new memory. The caller's struct is modified in place:
// ID (a fresh UUID) and CreatedAt are set here. UserID must already be set
// to the owning user.
func (r *MemoryRepo) Create(ctx context.Context, memory *model.Memory) error {
	memory.ID = uuid.NewString()
	memory.CreatedAt = time.Now()

	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO memories (id, content, cover_url, is_public, created_at, user_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		memory.ID,
		memory.Content,
		memory.CoverURL,
		memory.IsPublic,
		memory.CreatedAt,
		memory.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating memory: %w", err)
	}

	return nil
}

// GetByID retrieves a single memory by its ID, regardless of owner or
// visibility. Returns apperror.ErrNotFound if no row exists.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (*model.Memory, error) {
	var m model.Memory

	err := r.db.conn.QueryRowContext(ctx,
		`SELECT id, content, cover_url, is_public, created_at, user_id
		 FROM memories
		 WHERE id = ?`,
		id,
	).Scan(
		&m.ID,
		&m.Content,
		&m.CoverURL,
		&m.IsPublic,
		&m.CreatedAt,
		&m.UserID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("memory", id)
		}
		return nil, fmt.Errorf("sqlite: getting memory %s: %w", id, err)
	}

	return &m, nil
}

// ListByUser returns every memory owned by userID, ordered by ascending
// creation time. There is no pagination: the API contract returns the full
// set.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]model.Memory, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, content, cover_url, is_public, created_at, user_id
		 FROM memories
		 WHERE user_id = ?
		 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing memories for user %s: %w", userID, err)
	}
	defer rows.Close()

	memories := []model.Memory{}

	for rows.Next() {
		var m model.Memory
		if err := rows.Scan(
			&m.ID, &m.Content, &m.CoverURL, &m.IsPublic,
			&m.CreatedAt, &m.UserID,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning memory row: %w", err)
		}
		memories = append(memories, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating memories: %w", err)
	}

	return memories, nil
}

// Update overwrites content, cover_url, and is_public for an existing memory.
// id, created_at, and user_id are immutable. RowsAffected detects "not found"
// without a separate SELECT.
func (r *MemoryRepo) Update(ctx context.Context, memory *model.Memory) error {
	result, err := r.db.conn.ExecContext(ctx,
		`UPDATE memories
		 SET content = ?, cover_url = ?, is_public = ?
		 WHERE id = ?`,
		memory.Content,
		memory.CoverURL,
		memory.IsPublic,
		memory.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating memory %s: %w", memory.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("memory", memory.ID)
	}

	return nil
}

// Delete removes a memory by its ID. Same RowsAffected pattern as Update.
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.conn.ExecContext(ctx,
		`DELETE FROM memories WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting memory %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("memory", id)
	}

	return nil
}
