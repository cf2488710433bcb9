package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sakif/memories-api/internal/apperror"
	"github.com/sakif/memories-api/internal/model"
)

// createTestMemory creates a memory owned by userID and fails the test if it
// errors.
func createTestMemory(t *testing.T, db *DB, userID, content string) *model.Memory {
	t.Helper()
	memory := &model.Memory{
		Content:  content,
		CoverURL: "https://cdn.example.com/cover.png",
		UserID:   userID,
	}
	if err := NewMemoryRepo(db).Create(context.Background(), memory); err != nil {
		t.Fatalf("failed to create test memory: %v", err)
	}
	return memory
}

func TestMemoryCreate(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, 1, "owner")

	memory := &model.Memory{
		Content:  "the lighthouse trip",
		CoverURL: "https://cdn.example.com/lighthouse.png",
		IsPublic: true,
		UserID:   owner.ID,
	}

	if err := NewMemoryRepo(db).Create(context.Background(), memory); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := uuid.Parse(memory.ID); err != nil {
		t.Errorf("Create() set a non-UUID id %q: %v", memory.ID, err)
	}
	if memory.CreatedAt.IsZero() {
		t.Error("Create() did not set memory.CreatedAt")
	}
}

// Enforced foreign keys: a memory cannot reference a user that doesn't exist.
func TestMemoryCreate_UnknownOwner(t *testing.T) {
	memories := NewMemoryRepo(newTestDB(t))

	memory := &model.Memory{
		Content:  "orphan",
		CoverURL: "https://cdn.example.com/x.png",
		UserID:   "no-such-user",
	}

	if err := memories.Create(context.Background(), memory); err == nil {
		t.Fatal("Create() should fail for an unknown user_id")
	}
}

func TestMemoryGetByID_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, 2, "roundtrip")
	memories := NewMemoryRepo(db)

	created := &model.Memory{
		Content:  "hi",
		CoverURL: "http://x/y.png",
		IsPublic: false,
		UserID:   owner.ID,
	}
	if err := memories.Create(context.Background(), created); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := memories.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if found.Content != "hi" {
		t.Errorf("Content = %q, want %q", found.Content, "hi")
	}
	if found.CoverURL != "http://x/y.png" {
		t.Errorf("CoverURL = %q, want %q", found.CoverURL, "http://x/y.png")
	}
	if found.IsPublic {
		t.Error("IsPublic = true, want false")
	}
	if found.UserID != owner.ID {
		t.Errorf("UserID = %q, want %q", found.UserID, owner.ID)
	}
}

func TestMemoryGetByID_NotFound(t *testing.T) {
	memories := NewMemoryRepo(newTestDB(t))

	_, err := memories.GetByID(context.Background(), uuid.NewString())

	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

// ListByUser returns the owner's memories in ascending creation order and
// nobody else's.
func TestMemoryListByUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, 3, "lister")
	other := createTestUser(t, db, 4, "other")

	first := createTestMemory(t, db, owner.ID, "first")
	second := createTestMemory(t, db, owner.ID, "second")
	third := createTestMemory(t, db, owner.ID, "third")
	createTestMemory(t, db, other.ID, "not mine")

	memories, err := NewMemoryRepo(db).ListByUser(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}

	if len(memories) != 3 {
		t.Fatalf("ListByUser() returned %d memories, want 3", len(memories))
	}

	wantOrder := []string{first.ID, second.ID, third.ID}
	for i, want := range wantOrder {
		if memories[i].ID != want {
			t.Errorf("memories[%d].ID = %q, want %q (ascending createdAt order)",
				i, memories[i].ID, want)
		}
	}
}

func TestMemoryListByUser_Empty(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, 5, "empty")

	memories, err := NewMemoryRepo(db).ListByUser(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(memories) != 0 {
		t.Errorf("ListByUser() returned %d memories, want 0", len(memories))
	}
}

func TestMemoryUpdate(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, 6, "updater")
	memory := createTestMemory(t, db, owner.ID, "before")
	memories := NewMemoryRepo(db)

	memory.Content = "after"
	memory.CoverURL = "https://cdn.example.com/new.png"
	memory.IsPublic = true

	if err := memories.Update(context.Background(), memory); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := memories.GetByID(context.Background(), memory.ID)
	if err != nil {
		t.Fatalf("GetByID() after update error = %v", err)
	}

	if found.Content != "after" {
		t.Errorf("Content = %q, want %q", found.Content, "after")
	}
	if !found.IsPublic {
		t.Error("IsPublic = false, want true")
	}
	// Immutable fields survive the update untouched.
	if found.UserID != owner.ID {
		t.Errorf("UserID = %q, want %q", found.UserID, owner.ID)
	}
	if !found.CreatedAt.Equal(memory.CreatedAt) {
		t.Errorf("CreatedAt changed on update: %v != %v", found.CreatedAt, memory.CreatedAt)
	}
}

func TestMemoryUpdate_NotFound(t *testing.T) {
	memories := NewMemoryRepo(newTestDB(t))

	memory := &model.Memory{
		ID:       uuid.NewString(),
		Content:  "ghost",
		CoverURL: "https://cdn.example.com/x.png",
	}
	err := memories.Update(context.Background(), memory)

	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryDelete(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, 7, "deleter")
	memory := createTestMemory(t, db, owner.ID, "to delete")
	memories := NewMemoryRepo(db)

	if err := memories.Delete(context.Background(), memory.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := memories.GetByID(context.Background(), memory.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete: error = %v, want ErrNotFound", err)
	}
}

func TestMemoryDelete_NotFound(t *testing.T) {
	memories := NewMemoryRepo(newTestDB(t))

	err := memories.Delete(context.Background(), uuid.NewString())

	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}
