package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"notelock-server/internal/domain"
	"notelock-server/internal/repository"
	"notelock-server/pkg/hash"
	"notelock-server/pkg/ident"
	"notelock-server/pkg/token"
)

type NoteService struct {
	repo repository.NoteRepository
}

func NewNoteService(repo repository.NoteRepository) *NoteService {
	return &NoteService{repo: repo}
}

// Create stores a new note owned by userID. The share token is assigned at
// creation and never changes afterwards.
func (s *NoteService) Create(userID string, req *domain.CreateNoteRequest) (*domain.NoteResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", ErrValidation)
	}

	noteID, err := ident.NewID()
	if err != nil {
		return nil, err
	}

	shareToken, err := ident.NewShareToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	note := &domain.Note{
		ID:        noteID,
		Title:     domain.ClampTitle(title),
		Content:   domain.ClampContent(req.Content),
		CreatedAt: now,
		UpdatedAt: now,
		ShortURL:  shareToken,
		UserID:    userID,
	}

	if password := strings.TrimSpace(req.Password); password != "" {
		hashed, err := hash.Hash(password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash note password: %w", err)
		}
		note.PasswordHash = hashed
		note.IsPasswordProtected = true
	}

	if err := s.repo.Create(note); err != nil {
		return nil, err
	}

	return note.Response(true, true), nil
}

// List returns only the caller's notes, newest first.
func (s *NoteService) List(userID string) ([]*domain.NoteResponse, error) {
	notes, err := s.repo.ListByOwner(userID)
	if err != nil {
		return nil, err
	}

	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})

	responses := make([]*domain.NoteResponse, 0, len(notes))
	for _, n := range notes {
		if n.UserID != userID {
			continue
		}
		responses = append(responses, n.Response(true, true))
	}

	return responses, nil
}

// Get evaluates the requester against the note and returns the view that
// evaluation permits. identity may be nil; suppliedPassword, when set,
// attempts a single-request unlock of a protected note.
func (s *NoteService) Get(noteID string, identity *token.Claims, suppliedPassword string) (*domain.NoteResponse, error) {
	note, err := s.repo.FindByID(noteID)
	if err != nil {
		return nil, err
	}

	access, err := EvaluateAccess(note, identity, suppliedPassword)
	if err != nil {
		return nil, err
	}

	return note.Response(access.IsOwner, access.IncludeContent), nil
}

func (s *NoteService) Update(userID, noteID string, req *domain.UpdateNoteRequest) (*domain.NoteResponse, error) {
	note, err := s.ownedNote(userID, noteID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if title := strings.TrimSpace(*req.Title); title != "" {
			note.Title = domain.ClampTitle(title)
		}
	}
	if req.Content != nil {
		note.Content = domain.ClampContent(*req.Content)
	}
	if req.Password != nil {
		if password := strings.TrimSpace(*req.Password); password != "" {
			hashed, err := hash.Hash(password)
			if err != nil {
				return nil, fmt.Errorf("failed to hash note password: %w", err)
			}
			note.PasswordHash = hashed
			note.IsPasswordProtected = true
		} else {
			note.PasswordHash = ""
			note.IsPasswordProtected = false
		}
	}

	note.UpdatedAt = time.Now()

	if err := s.repo.Update(note); err != nil {
		return nil, err
	}

	return note.Response(true, true), nil
}

// Delete removes the note; the repository cascades the short-link mapping.
func (s *NoteService) Delete(userID, noteID string) error {
	if _, err := s.ownedNote(userID, noteID); err != nil {
		return err
	}
	return s.repo.Delete(noteID)
}

func (s *NoteService) SetPassword(userID, noteID, password string) (*domain.NoteResponse, error) {
	note, err := s.ownedNote(userID, noteID)
	if err != nil {
		return nil, err
	}

	hashed, err := hash.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash note password: %w", err)
	}

	note.PasswordHash = hashed
	note.IsPasswordProtected = true
	note.UpdatedAt = time.Now()

	if err := s.repo.Update(note); err != nil {
		return nil, err
	}

	return note.Response(true, true), nil
}

func (s *NoteService) RemovePassword(userID, noteID string) (*domain.NoteResponse, error) {
	note, err := s.ownedNote(userID, noteID)
	if err != nil {
		return nil, err
	}

	note.PasswordHash = ""
	note.IsPasswordProtected = false
	note.UpdatedAt = time.Now()

	if err := s.repo.Update(note); err != nil {
		return nil, err
	}

	return note.Response(true, true), nil
}

// VerifyAccess is the password gate: stateless, idempotent, no lockout.
// An unprotected note always grants access; a protected note with no
// submitted password reports that a password is required, which is a
// success state, not an error.
func (s *NoteService) VerifyAccess(noteID, password string) (*domain.NoteAccess, error) {
	note, err := s.repo.FindByID(noteID)
	if err != nil {
		return nil, err
	}

	if !note.IsPasswordProtected {
		return &domain.NoteAccess{
			NoteID:              noteID,
			HasAccess:           true,
			IsPasswordProtected: false,
		}, nil
	}

	if password == "" {
		return &domain.NoteAccess{
			NoteID:              noteID,
			HasAccess:           false,
			IsPasswordProtected: true,
		}, nil
	}

	if note.PasswordHash == "" {
		return nil, ErrCorruptNote
	}

	if err := hash.Compare(note.PasswordHash, password); err != nil {
		return nil, ErrWrongPassword
	}

	return &domain.NoteAccess{
		NoteID:              noteID,
		HasAccess:           true,
		IsPasswordProtected: true,
	}, nil
}

// ResolveShort serves the public share surface: always the redacted
// projection, regardless of who asks.
func (s *NoteService) ResolveShort(shareToken string) (*domain.ShareableNote, error) {
	note, err := s.repo.FindByShortURL(shareToken)
	if err != nil {
		return nil, err
	}
	return note.Shareable(), nil
}

// ownedNote fetches a note and enforces ownership for mutating operations.
// Ownerless legacy notes are editable and deletable by no one.
func (s *NoteService) ownedNote(userID, noteID string) (*domain.Note, error) {
	note, err := s.repo.FindByID(noteID)
	if err != nil {
		return nil, err
	}

	if note.UserID == "" || note.UserID != userID {
		return nil, ErrForbidden
	}

	return note, nil
}
