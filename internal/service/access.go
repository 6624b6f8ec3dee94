package service

import (
	"notelock-server/internal/domain"
	"notelock-server/pkg/hash"
	"notelock-server/pkg/token"
)

// Visibility is the per-request outcome of evaluating a note against a
// requester. It is computed fresh on every fetch and never stored.
type Visibility int

const (
	// VisibilityOwner grants full access with edit, delete and
	// password-management rights.
	VisibilityOwner Visibility = iota

	// VisibilityPublic is a read-only view with content included: an
	// unprotected note, an ownerless legacy note, or a protected note
	// unlocked by a password supplied with this request.
	VisibilityPublic

	// VisibilityLocked withholds content; the caller must pass the password
	// gate to read it.
	VisibilityLocked
)

type Access struct {
	Visibility     Visibility
	IsOwner        bool
	IncludeContent bool
}

// EvaluateAccess classifies a request into exactly one visibility outcome.
// identity may be nil for anonymous callers. suppliedPassword, when
// non-empty, attempts to unlock a protected note for this request only;
// a mismatch is ErrWrongPassword and a protected note with no stored hash
// is ErrCorruptNote.
func EvaluateAccess(note *domain.Note, identity *token.Claims, suppliedPassword string) (Access, error) {
	// Legacy ownerless notes are fully readable but grant no owner rights.
	if note.UserID == "" {
		return Access{Visibility: VisibilityPublic, IncludeContent: true}, nil
	}

	if identity != nil && identity.UserID == note.UserID {
		return Access{Visibility: VisibilityOwner, IsOwner: true, IncludeContent: true}, nil
	}

	if !note.IsPasswordProtected {
		return Access{Visibility: VisibilityPublic, IncludeContent: true}, nil
	}

	if suppliedPassword != "" {
		if note.PasswordHash == "" {
			return Access{}, ErrCorruptNote
		}
		if err := hash.Compare(note.PasswordHash, suppliedPassword); err != nil {
			return Access{}, ErrWrongPassword
		}
		return Access{Visibility: VisibilityPublic, IncludeContent: true}, nil
	}

	return Access{Visibility: VisibilityLocked}, nil
}
