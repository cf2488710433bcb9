package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sakif/memories-api/internal/apperror"
	"github.com/sakif/memories-api/internal/model"
	"github.com/sakif/memories-api/internal/repository"
)

// ExcerptLength is how many characters of content the list projection keeps
// before the "..." marker.
const ExcerptLength = 115

// MemoryService handles business logic for memories: validation, ownership
// and visibility rules, and the list projection.
//
// Every method takes the caller's user ID explicitly. The service never
// reaches into a request context for identity; the handler extracts the
// authenticated principal and passes it in.
type MemoryService struct {
	repo   repository.MemoryRepository
	logger *slog.Logger
}

// NewMemoryService creates a new MemoryService.
func NewMemoryService(repo repository.MemoryRepository, logger *slog.Logger) *MemoryService {
	return &MemoryService{
		repo:   repo,
		logger: logger,
	}
}

// canRead reports whether callerID may read the memory: public memories are
// readable by any authenticated user, private ones only by their owner.
func canRead(m *model.Memory, callerID string) bool {
	return m.IsPublic || m.UserID == callerID
}

// canModify reports whether callerID may update or delete the memory.
// Only the owner may, regardless of visibility.
func canModify(m *model.Memory, callerID string) bool {
	return m.UserID == callerID
}

// Excerpt returns the first ExcerptLength characters of content with a
// literal "..." appended. The suffix is unconditional: content shorter than
// the cutoff still gets it. Existing clients rely on this exact shape.
func Excerpt(content string) string {
	runes := []rune(content)
	if len(runes) > ExcerptLength {
		runes = runes[:ExcerptLength]
	}
	return string(runes) + "..."
}

// validateMemoryID rejects anything that isn't a syntactically valid UUID
// before a single repository call is made.
func validateMemoryID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.ValidationFailed("id", "memory ID must be a valid UUID")
	}
	return nil
}

// List returns summaries of every memory owned by the caller, in ascending
// creation order.
func (s *MemoryService) List(ctx context.Context, callerID string) ([]model.MemorySummary, error) {
	memories, err := s.repo.ListByUser(ctx, callerID)
	if err != nil {
		s.logger.Error("failed to list memories",
			slog.String("userID", callerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing memories: %w", err)
	}

	summaries := make([]model.MemorySummary, 0, len(memories))
	for _, m := range memories {
		summaries = append(summaries, model.MemorySummary{
			ID:       m.ID,
			CoverURL: m.CoverURL,
			Excerpt:  Excerpt(m.Content),
		})
	}

	return summaries, nil
}

// Get returns the full memory record.
//
// A missing ID is a fatal lookup error that propagates as-is; it is NOT
// softened into a clean 404 (see writeError in the handler package for how
// that surfaces). A private memory read by a non-owner returns
// apperror.ErrUnauthorized with no detail about the resource.
func (s *MemoryService) Get(ctx context.Context, callerID, id string) (*model.Memory, error) {
	if err := validateMemoryID(id); err != nil {
		return nil, err
	}

	memory, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canRead(memory, callerID) {
		return nil, apperror.Unauthorized()
	}

	return memory, nil
}

// Create validates and stores a new memory owned by the caller.
func (s *MemoryService) Create(ctx context.Context, callerID, content, coverURL string, isPublic bool) (*model.Memory, error) {
	if content == "" {
		return nil, apperror.ValidationFailed("content", "content is required")
	}
	if coverURL == "" {
		return nil, apperror.ValidationFailed("coverUrl", "coverUrl is required")
	}

	memory := &model.Memory{
		Content:  content,
		CoverURL: coverURL,
		IsPublic: isPublic,
		UserID:   callerID,
	}

	if err := s.repo.Create(ctx, memory); err != nil {
		s.logger.Error("failed to create memory",
			slog.String("userID", callerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating memory: %w", err)
	}

	s.logger.Info("memory created",
		slog.String("id", memory.ID),
		slog.String("userID", callerID),
	)

	return memory, nil
}

// Update overwrites content, coverUrl, and isPublic on an existing memory.
// Fields are fully replaced, not merged. Ownership is rechecked on every
// call: a non-owner gets apperror.ErrUnauthorized and the row is untouched.
func (s *MemoryService) Update(ctx context.Context, callerID, id, content, coverURL string, isPublic bool) (*model.Memory, error) {
	if err := validateMemoryID(id); err != nil {
		return nil, err
	}
	if content == "" {
		return nil, apperror.ValidationFailed("content", "content is required")
	}
	if coverURL == "" {
		return nil, apperror.ValidationFailed("coverUrl", "coverUrl is required")
	}

	memory, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canModify(memory, callerID) {
		return nil, apperror.Unauthorized()
	}

	memory.Content = content
	memory.CoverURL = coverURL
	memory.IsPublic = isPublic

	if err := s.repo.Update(ctx, memory); err != nil {
		s.logger.Error("failed to update memory",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating memory: %w", err)
	}

	s.logger.Info("memory updated", slog.String("id", id))

	return memory, nil
}

// Delete removes a memory. Same ownership rule as Update.
func (s *MemoryService) Delete(ctx context.Context, callerID, id string) error {
	if err := validateMemoryID(id); err != nil {
		return err
	}

	memory, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !canModify(memory, callerID) {
		return apperror.Unauthorized()
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("memory deleted", slog.String("id", id))
	return nil
}
