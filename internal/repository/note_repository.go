package repository

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"notelock-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type NoteRepository interface {
	Create(note *domain.Note) error
	FindByID(id string) (*domain.Note, error)
	FindByShortURL(token string) (*domain.Note, error)
	ListByOwner(userID string) ([]*domain.Note, error)
	Update(note *domain.Note) error
	Delete(id string) error
}

type noteRepository struct {
	client *kivik.Client
	dbName string
}

func NewNoteRepository(client *kivik.Client, dbName string) NoteRepository {
	return &noteRepository{
		client: client,
		dbName: dbName,
	}
}

type shortLinkDoc struct {
	NoteID string `json:"note_id"`
}

// Create writes the note document and, when a share token is assigned, the
// short-link mapping document. The two writes are not transactional: a
// failure in between can leave a note without its mapping.
func (r *noteRepository) Create(note *domain.Note) error {
	db := r.client.DB(r.dbName)

	docID := fmt.Sprintf("note:%s", note.ID)
	if _, err := db.Put(context.Background(), docID, note); err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	if note.ShortURL != "" {
		shortID := fmt.Sprintf("short:%s", note.ShortURL)
		if _, err := db.Put(context.Background(), shortID, shortLinkDoc{NoteID: note.ID}); err != nil {
			return fmt.Errorf("failed to create short link mapping: %w", err)
		}
	}

	return nil
}

func (r *noteRepository) FindByID(id string) (*domain.Note, error) {
	db := r.client.DB(r.dbName)

	docID := fmt.Sprintf("note:%s", id)
	row := db.Get(context.Background(), docID)

	var note domain.Note
	if err := row.ScanDoc(&note); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, fmt.Errorf("note %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find note: %w", err)
	}

	return &note, nil
}

func (r *noteRepository) FindByShortURL(token string) (*domain.Note, error) {
	db := r.client.DB(r.dbName)

	shortID := fmt.Sprintf("short:%s", token)
	row := db.Get(context.Background(), shortID)

	var mapping shortLinkDoc
	if err := row.ScanDoc(&mapping); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, fmt.Errorf("short link %s: %w", token, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to resolve short link: %w", err)
	}

	return r.FindByID(mapping.NoteID)
}

// ListByOwner queries notes by their owner field. This replaces the manual
// set-membership indices a key-value layout would need; rows that fail to
// scan are skipped rather than failing the whole listing.
func (r *noteRepository) ListByOwner(userID string) ([]*domain.Note, error) {
	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"user_id": userID,
			"title":   map[string]interface{}{"$exists": true},
		},
	}

	rows := db.Find(context.Background(), query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		var note domain.Note
		if err := rows.ScanDoc(&note); err != nil {
			continue
		}
		notes = append(notes, &note)
	}

	return notes, nil
}

func (r *noteRepository) Update(note *domain.Note) error {
	db := r.client.DB(r.dbName)
	docID := fmt.Sprintf("note:%s", note.ID)

	var existingDoc map[string]interface{}
	row := db.Get(context.Background(), docID)
	if err := row.ScanDoc(&existingDoc); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return fmt.Errorf("note %s: %w", note.ID, ErrNotFound)
		}
		return fmt.Errorf("failed to fetch existing note for update: %w", err)
	}

	existingDoc["title"] = note.Title
	existingDoc["content"] = note.Content
	existingDoc["is_password_protected"] = note.IsPasswordProtected
	existingDoc["updated_at"] = time.Now()

	if note.PasswordHash != "" {
		existingDoc["password_hash"] = note.PasswordHash
	} else {
		delete(existingDoc, "password_hash")
	}

	if _, err := db.Put(context.Background(), docID, existingDoc); err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	return nil
}

// Delete removes the note document and cascades to its short-link mapping.
func (r *noteRepository) Delete(id string) error {
	db := r.client.DB(r.dbName)
	docID := fmt.Sprintf("note:%s", id)

	var existingDoc map[string]interface{}
	row := db.Get(context.Background(), docID)
	if err := row.ScanDoc(&existingDoc); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return fmt.Errorf("note %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to fetch note for delete: %w", err)
	}

	rev, _ := existingDoc["_rev"].(string)
	if _, err := db.Delete(context.Background(), docID, rev); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	shortURL, _ := existingDoc["short_url"].(string)
	if shortURL != "" {
		shortID := fmt.Sprintf("short:%s", shortURL)

		var shortDoc map[string]interface{}
		shortRow := db.Get(context.Background(), shortID)
		if err := shortRow.ScanDoc(&shortDoc); err == nil {
			shortRev, _ := shortDoc["_rev"].(string)
			if _, err := db.Delete(context.Background(), shortID, shortRev); err != nil {
				return fmt.Errorf("failed to delete short link mapping: %w", err)
			}
		}
	}

	return nil
}
