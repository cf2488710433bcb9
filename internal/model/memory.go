package model

import "time"

// Memory represents a single journal entry: a piece of text with a cover
// image, owned by exactly one user.
//
// IDs are UUIDs (unlike User, which uses xid) because memory IDs appear in
// URLs and the API contract validates them as UUIDs before any lookup.
//
// UserID is set at creation time and never changes. Only the owner may update
// or delete a memory; non-owners may read it only when IsPublic is true.
type Memory struct {
	ID        string    `json:"id"        db:"id"`
	Content   string    `json:"content"   db:"content"`
	CoverURL  string    `json:"coverUrl"  db:"cover_url"`
	IsPublic  bool      `json:"isPublic"  db:"is_public"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UserID    string    `json:"userId"    db:"user_id"`
}

// MemorySummary is the projection returned by the list endpoint.
//
// Excerpt is always the first 115 characters of Content with a literal "..."
// appended, even when the content is shorter than 115 characters. Clients
// depend on the unconditional suffix, so it must not be made conditional.
type MemorySummary struct {
	ID       string `json:"id"`
	CoverURL string `json:"coverUrl"`
	Excerpt  string `json:"excerpt"`
}
