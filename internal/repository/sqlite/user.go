package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/memories-api/internal/apperror"
	"github.com/sakif/memories-api/internal/model"
	"github.com/sakif/memories-api/internal/repository"
)

// compile-time check that *UserRepo implements repository.UserRepository
var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implements repository.UserRepository on top of a shared DB handle.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a UserRepo backed by db.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new user row. The caller's struct is modified in place:
// ID and CreatedAt are set here.
//
// Inserting a second user with the same GitHubID violates the UNIQUE
// constraint and returns an error. The auth service avoids this by looking
// the user up by GitHub ID first; there is no update path because profile
// fields are intentionally never refreshed after first login.
func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now()

	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO users (id, github_id, login, name, avatar_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.GitHubID,
		user.Login,
		user.Name,
		user.AvatarURL,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user (githubID=%d): %w", user.GitHubID, err)
	}

	return nil
}

// GetByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.scanUser(r.db.conn.QueryRowContext(ctx,
		`SELECT id, github_id, login, name, avatar_url, created_at
		 FROM users WHERE id = ?`,
		id,
	), id)
}

// GetByGitHubID retrieves a user by their GitHub account ID. This is the
// lookup the register flow uses to decide between "first login, create a row"
// and "repeat login, reuse the row unchanged".
func (r *UserRepo) GetByGitHubID(ctx context.Context, githubID int64) (*model.User, error) {
	return r.scanUser(r.db.conn.QueryRowContext(ctx,
		`SELECT id, github_id, login, name, avatar_url, created_at
		 FROM users WHERE github_id = ?`,
		githubID,
	), fmt.Sprintf("githubID=%d", githubID))
}

func (r *UserRepo) scanUser(row *sql.Row, ref string) (*model.User, error) {
	var u model.User

	err := row.Scan(
		&u.ID,
		&u.GitHubID,
		&u.Login,
		&u.Name,
		&u.AvatarURL,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", ref)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", ref, err)
	}

	return &u, nil
}
