package domain

import "time"

const (
	MaxTitleLength   = 200
	MaxContentLength = 50 * 1024
)

// Note is the canonical record held by the note store. Invariant:
// IsPasswordProtected is true exactly when PasswordHash is non-empty.
// An empty UserID marks a legacy ownerless note: readable by anyone,
// editable and deletable by no one.
type Note struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Content             string    `json:"content"`
	IsPasswordProtected bool      `json:"is_password_protected"`
	PasswordHash        string    `json:"password_hash,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	ShortURL            string    `json:"short_url,omitempty"`
	UserID              string    `json:"user_id,omitempty"`
}

// ClampTitle truncates a title so storage never holds an over-limit value.
func ClampTitle(title string) string {
	return trimToRunes(title, MaxTitleLength)
}

func ClampContent(content string) string {
	if len(content) > MaxContentLength {
		return content[:MaxContentLength]
	}
	return content
}

func trimToRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}

type CreateNoteRequest struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content"`
	Password string `json:"password"`
}

// UpdateNoteRequest uses pointers to distinguish "absent" from "set to
// empty". A non-empty Password enables protection, an empty one clears it.
type UpdateNoteRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Password *string `json:"password"`
}

type SetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=4,max=128"`
}

type VerifyRequest struct {
	Password string `json:"password"`
}

// NoteAccess is the transient outcome of a password-verification attempt.
// It drives UI state and is never persisted.
type NoteAccess struct {
	NoteID              string `json:"note_id"`
	HasAccess           bool   `json:"has_access"`
	IsPasswordProtected bool   `json:"is_password_protected"`
}

// NoteResponse is the only note shape that crosses the handler boundary.
// It structurally cannot carry a password hash.
type NoteResponse struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Content             string    `json:"content"`
	IsPasswordProtected bool      `json:"is_password_protected"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	ShortURL            string    `json:"short_url,omitempty"`
	IsOwner             bool      `json:"is_owner"`
}

// Response projects the note for a caller. Content is withheld unless the
// access evaluation included it.
func (n *Note) Response(isOwner, includeContent bool) *NoteResponse {
	resp := &NoteResponse{
		ID:                  n.ID,
		Title:               n.Title,
		IsPasswordProtected: n.IsPasswordProtected,
		CreatedAt:           n.CreatedAt,
		UpdatedAt:           n.UpdatedAt,
		ShortURL:            n.ShortURL,
		IsOwner:             isOwner,
	}
	if includeContent {
		resp.Content = n.Content
	}
	return resp
}

// ShareableNote is the redacted projection served on the public short-link
// surface. Content is blanked when the note is protected; the hash and the
// owner id never appear.
type ShareableNote struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Content             string    `json:"content"`
	ShortURL            string    `json:"short_url"`
	CreatedAt           time.Time `json:"created_at"`
	IsPasswordProtected bool      `json:"is_password_protected"`
}

func (n *Note) Shareable() *ShareableNote {
	s := &ShareableNote{
		ID:                  n.ID,
		Title:               n.Title,
		ShortURL:            n.ShortURL,
		CreatedAt:           n.CreatedAt,
		IsPasswordProtected: n.IsPasswordProtected,
	}
	if !n.IsPasswordProtected {
		s.Content = n.Content
	}
	return s
}
