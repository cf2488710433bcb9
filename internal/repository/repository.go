package repository

import (
	"context"

	"github.com/sakif/memories-api/internal/model"
)

// UserRepository is the persistence contract for user accounts.
//
// There is deliberately no Update or Delete: users are created lazily on
// first OAuth login and never touched again. Profile fields are NOT refreshed
// on repeat logins.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByGitHubID(ctx context.Context, githubID int64) (*model.User, error)
}

// MemoryRepository is the persistence contract for memories.
//
// ListByUser returns only the given user's memories, ordered by ascending
// creation time. GetByID returns any memory regardless of owner; visibility
// rules are enforced in the service layer, not here.
type MemoryRepository interface {
	Create(ctx context.Context, memory *model.Memory) error
	GetByID(ctx context.Context, id string) (*model.Memory, error)
	ListByUser(ctx context.Context, userID string) ([]model.Memory, error)
	Update(ctx context.Context, memory *model.Memory) error
	Delete(ctx context.Context, id string) error
}
