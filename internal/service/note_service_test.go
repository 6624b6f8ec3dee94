package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"notelock-server/internal/domain"
	"notelock-server/internal/repository"
	"notelock-server/pkg/hash"
	"notelock-server/pkg/token"
)

type mockNoteRepo struct {
	notes  map[string]*domain.Note
	shorts map[string]string
}

func newMockNoteRepo() *mockNoteRepo {
	return &mockNoteRepo{
		notes:  make(map[string]*domain.Note),
		shorts: make(map[string]string),
	}
}

func (m *mockNoteRepo) Create(note *domain.Note) error {
	copied := *note
	m.notes[note.ID] = &copied
	if note.ShortURL != "" {
		m.shorts[note.ShortURL] = note.ID
	}
	return nil
}

func (m *mockNoteRepo) FindByID(id string) (*domain.Note, error) {
	if n, ok := m.notes[id]; ok {
		copied := *n
		return &copied, nil
	}
	return nil, fmt.Errorf("note %s: %w", id, repository.ErrNotFound)
}

func (m *mockNoteRepo) FindByShortURL(token string) (*domain.Note, error) {
	if id, ok := m.shorts[token]; ok {
		return m.FindByID(id)
	}
	return nil, fmt.Errorf("short link %s: %w", token, repository.ErrNotFound)
}

func (m *mockNoteRepo) ListByOwner(userID string) ([]*domain.Note, error) {
	var notes []*domain.Note
	for _, n := range m.notes {
		if n.UserID == userID {
			copied := *n
			notes = append(notes, &copied)
		}
	}
	return notes, nil
}

func (m *mockNoteRepo) Update(note *domain.Note) error {
	if _, ok := m.notes[note.ID]; !ok {
		return fmt.Errorf("note %s: %w", note.ID, repository.ErrNotFound)
	}
	copied := *note
	m.notes[note.ID] = &copied
	return nil
}

func (m *mockNoteRepo) Delete(id string) error {
	n, ok := m.notes[id]
	if !ok {
		return fmt.Errorf("note %s: %w", id, repository.ErrNotFound)
	}
	delete(m.shorts, n.ShortURL)
	delete(m.notes, id)
	return nil
}

func TestNoteService_Create(t *testing.T) {
	repo := newMockNoteRepo()
	svc := NewNoteService(repo)

	resp, err := svc.Create("alice-id", &domain.CreateNoteRequest{Title: "T", Content: "C"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if len(resp.ID) != 12 {
		t.Errorf("Create() note id length = %d, want 12", len(resp.ID))
	}
	if len(resp.ShortURL) != 8 {
		t.Errorf("Create() short url length = %d, want 8", len(resp.ShortURL))
	}
	if !resp.IsOwner {
		t.Error("Create() response should mark the creator as owner")
	}
	if resp.IsPasswordProtected {
		t.Error("Create() note should not be protected without a password")
	}

	stored, err := repo.FindByID(resp.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if stored.UserID != "alice-id" {
		t.Errorf("Create() stored owner = %v, want alice-id", stored.UserID)
	}
	if _, ok := repo.shorts[resp.ShortURL]; !ok {
		t.Error("Create() did not register the short link mapping")
	}
}

func TestNoteService_CreateValidation(t *testing.T) {
	svc := NewNoteService(newMockNoteRepo())

	for _, title := range []string{"", "   "} {
		if _, err := svc.Create("alice-id", &domain.CreateNoteRequest{Title: title}); !errors.Is(err, ErrValidation) {
			t.Errorf("Create(title=%q) error = %v, want ErrValidation", title, err)
		}
	}
}

func TestNoteService_CreateClampsLimits(t *testing.T) {
	repo := newMockNoteRepo()
	svc := NewNoteService(repo)

	longTitle := strings.Repeat("t", 300)
	longContent := strings.Repeat("c", domain.MaxContentLength+1000)

	resp, err := svc.Create("alice-id", &domain.CreateNoteRequest{Title: longTitle, Content: longContent})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	stored, _ := repo.FindByID(resp.ID)
	if len(stored.Title) != domain.MaxTitleLength {
		t.Errorf("Create() stored title length = %d, want %d", len(stored.Title), domain.MaxTitleLength)
	}
	if len(stored.Content) != domain.MaxContentLength {
		t.Errorf("Create() stored content length = %d, want %d", len(stored.Content), domain.MaxContentLength)
	}
}

func TestNoteService_CreateWithPassword(t *testing.T) {
	repo := newMockNoteRepo()
	svc := NewNoteService(repo)

	resp, err := svc.Create("alice-id", &domain.CreateNoteRequest{Title: "T", Content: "C", Password: "1234"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if !resp.IsPasswordProtected {
		t.Error("Create() note should be protected")
	}

	stored, _ := repo.FindByID(resp.ID)
	if stored.PasswordHash == "" || stored.PasswordHash == "1234" {
		t.Error("Create() stored password is not a hash")
	}
	if stored.IsPasswordProtected != (stored.PasswordHash != "") {
		t.Error("protection flag and hash presence must agree")
	}
}

func TestNoteService_ListSortedNewestFirst(t *testing.T) {
	repo := newMockNoteRepo()
	svc := NewNoteService(repo)

	base := time.Now()
	repo.Create(&domain.Note{ID: "old-note-0001", Title: "old", UserID: "alice-id", CreatedAt: base.Add(-2 * time.Hour)})
	repo.Create(&domain.Note{ID: "new-note-0001", Title: "new", UserID: "alice-id", CreatedAt: base})
	repo.Create(&domain.Note{ID: "mid-note-0001", Title: "mid", UserID: "alice-id", CreatedAt: base.Add(-1 * time.Hour)})
	repo.Create(&domain.Note{ID: "bob-note-0001", Title: "bob", UserID: "bob-id", CreatedAt: base})

	notes, err := svc.List("alice-id")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(notes) != 3 {
		t.Fatalf("List() returned %d notes, want 3", len(notes))
	}

	want := []string{"new-note-0001", "mid-note-0001", "old-note-0001"}
	for i, n := range notes {
		if n.ID != want[i] {
			t.Errorf("List()[%d] = %s, want %s", i, n.ID, want[i])
		}
		if !n.IsOwner {
			t.Errorf("List()[%d] should mark caller as owner", i)
		}
	}
}

func TestNoteService_Get(t *testing.T) {
	repo := newMockNoteRepo()
	svc := NewNoteService(repo)

	protectedHash, _ := hash.Hash("1234")
	repo.Create(&domain.Note{ID: "open-note-001", Title: "T", Content: "C", UserID: "alice-id"})
	repo.Create(&domain.Note{ID: "lock-note-001", Title: "T", Content: "C", UserID: "alice-id", IsPasswordProtected: true, PasswordHash: protectedHash})
	repo.Create(&domain.Note{ID: "orphan-note-1", Title: "T", Content: "C"})

	alice := &token.Claims{UserID: "alice-id", Username: "alice"}
	bob := &token.Claims{UserID: "bob-id", Username: "bob"}

	tests := []struct {
		name        string
		noteID      string
		identity    *token.Claims
		password    string
		wantOwner   bool
		wantContent string
		wantErr     error
	}{
		{
			name:        "owner sees content and owner flag",
			noteID:      "open-note-001",
			identity:    alice,
			wantOwner:   true,
			wantContent: "C",
		},
		{
			name:        "stranger sees content of unprotected note",
			noteID:      "open-note-001",
			identity:    bob,
			wantContent: "C",
		},
		{
			name:        "anonymous sees content of unprotected note",
			noteID:      "open-note-001",
			wantContent: "C",
		},
		{
			name:        "stranger sees no content of protected note",
			noteID:      "lock-note-001",
			identity:    bob,
			wantContent: "",
		},
		{
			name:        "owner sees content of protected note",
			noteID:      "lock-note-001",
			identity:    alice,
			wantOwner:   true,
			wantContent: "C",
		},
		{
			name:        "stranger with correct password sees content",
			noteID:      "lock-note-001",
			identity:    bob,
			password:    "1234",
			wantContent: "C",
		},
		{
			name:     "stranger with wrong password is rejected",
			noteID:   "lock-note-001",
			identity: bob,
			password: "wrong",
			wantErr:  ErrWrongPassword,
		},
		{
			name:        "ownerless note readable, no owner rights",
			noteID:      "orphan-note-1",
			identity:    bob,
			wantContent: "C",
		},
		{
			name:    "missing note",
			noteID:  "missing-note",
			wantErr: repository.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Get(tt.noteID, tt.identity, tt.password)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Get() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if resp.IsOwner != tt.wantOwner {
				t.Errorf("Get() isOwner = %v, want %v", resp.IsOwner, tt.wantOwner)
			}
			if resp.Content != tt.wantContent {
				t.Errorf("Get() content = %q, want %q", resp.Content, tt.wantContent)
			}
		})
	}
}

func TestNoteService_UpdateOwnership(t *testing.T) {
	repo := newMockNoteRepo()
	svc := NewNoteService(repo)

	repo.Create(&domain.Note{ID: "note-id-00001", Title: "T", Content: "C", UserID: "alice-id"})
	repo.Create(&domain.Note{ID: "orphan-note-1", Title: "T"})

	title := "new title"
	if _, err := svc.Update("bob-id", "note-id-00001", &domain.UpdateNoteRequest{Title: &title}); !errors.Is(err, ErrForbidden) {
		t.Errorf("Update() by non-owner error = %v, want ErrForbidden", err)
	}

	if _, err := svc.Update("bob-id", "orphan-note-1", &domain.UpdateNoteRequest{Title: &title}); !errors.Is(err, ErrForbidden) {
		t.Errorf("Update() of ownerless note error = %v, want ErrForbidden", err)
	}

	if err := svc.Delete("bob-id", "note-id-00001"); !errors.Is(err, ErrForbidden) {
		t.Errorf("Delete() by non-owner error = %v, want ErrForbidden", err)
	}
}

func TestNoteService_UpdatePartial(t *testing.T) {
	repo := newMockNoteRepo()
	svc := NewNoteService(repo)

	repo.Create(&domain.Note{ID: "note-id-00001", Title: "T", Content: "C", UserID: "alice-id"})

	newContent := ""
	resp, err := svc.Update("alice-id", "note-id-00001", &domain.UpdateNoteRequest{Content: &newContent})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if resp.Title != "T" {
		t.Errorf("Update() title = %q, want unchanged %q", resp.Title, "T")
	}
	if resp.Content != "" {
		t.Errorf("Update() content = %q, want cleared", resp.Content)
	}

	// A blank title leaves the stored title alone.
	blank := "  "
	resp, err = svc.Update("alice-id", "note-id-00001", &domain.UpdateNoteRequest{Title: &blank})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if resp.Title != "T" {
		t.Errorf("Update() title = %q, want unchanged %q", resp.Title, "T")
	}
}

func TestNoteService_UpdatePasswordLifecycle(t *testing.T) {
	repo := newMockNoteRepo()
	svc := NewNoteService(repo)

	repo.Create(&domain.Note{ID: "note-id-00001", Title: "T", Content: "C", UserID: "alice-id"})

	set := "1234"
	resp, err := svc.Update("alice-id", "note-id-00001", &domain.UpdateNoteRequest{Password: &set})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !resp.IsPasswordProtected {
		t.Error("Update() should enable protection")
	}

	stored, _ := repo.FindByID("note-id-00001")
	if stored.PasswordHash == "" {
		t.Error("Update() should store a hash when protecting")
	}

	clear := ""
	resp, err = svc.Update("alice-id", "note-id-00001", &domain.UpdateNoteRequest{Password: &clear})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if resp.IsPasswordProtected {
		t.Error("Update() should clear protection")
	}

	stored, _ = repo.FindByID("note-id-00001")
	if stored.PasswordHash != "" {
		t.Error("Update() should remove the hash when clearing protection")
	}
}

func TestNoteService_VerifyAccessRoundTrip(t *testing.T) {
	repo := newMockNoteRepo()
	svc := NewNoteService(repo)

	resp, err := svc.Create("alice-id", &domain.CreateNoteRequest{Title: "T", Content: "C", Password: "1234"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	noteID := resp.ID

	access, err := svc.VerifyAccess(noteID, "1234")
	if err != nil {
		t.Fatalf("VerifyAccess(correct) error = %v", err)
	}
	if !access.HasAccess || !access.IsPasswordProtected {
		t.Errorf("VerifyAccess(correct) = %+v, want access granted on protected note", access)
	}

	// Idempotent: same inputs, same outcome.
	again, err := svc.VerifyAccess(noteID, "1234")
	if err != nil || *again != *access {
		t.Errorf("VerifyAccess() not idempotent: %+v vs %+v (err %v)", again, access, err)
	}

	if _, err := svc.VerifyAccess(noteID, "wrong"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("VerifyAccess(wrong) error = %v, want ErrWrongPassword", err)
	}

	access, err = svc.VerifyAccess(noteID, "")
	if err != nil {
		t.Fatalf("VerifyAccess(absent) error = %v", err)
	}
	if access.HasAccess || !access.IsPasswordProtected {
		t.Errorf("VerifyAccess(absent) = %+v, want password-required state", access)
	}

	if _, err := svc.RemovePassword("alice-id", noteID); err != nil {
		t.Fatalf("RemovePassword() error = %v", err)
	}

	access, err = svc.VerifyAccess(noteID, "anything")
	if err != nil {
		t.Fatalf("VerifyAccess(after removal) error = %v", err)
	}
	if !access.HasAccess || access.IsPasswordProtected {
		t.Errorf("VerifyAccess(after removal) = %+v, want open access", access)
	}
}

func TestNoteService_VerifyAccessCorruptNote(t *testing.T) {
	repo := newMockNoteRepo()
	svc := NewNoteService(repo)

	repo.Create(&domain.Note{ID: "bad-note-0001", Title: "T", UserID: "alice-id", IsPasswordProtected: true})

	if _, err := svc.VerifyAccess("bad-note-0001", "1234"); !errors.Is(err, ErrCorruptNote) {
		t.Errorf("VerifyAccess() error = %v, want ErrCorruptNote", err)
	}
}

func TestNoteService_SetPassword(t *testing.T) {
	repo := newMockNoteRepo()
	svc := NewNoteService(repo)

	repo.Create(&domain.Note{ID: "note-id-00001", Title: "T", UserID: "alice-id"})

	if _, err := svc.SetPassword("bob-id", "note-id-00001", "1234"); !errors.Is(err, ErrForbidden) {
		t.Errorf("SetPassword() by non-owner error = %v, want ErrForbidden", err)
	}

	resp, err := svc.SetPassword("alice-id", "note-id-00001", "1234")
	if err != nil {
		t.Fatalf("SetPassword() error = %v", err)
	}
	if !resp.IsPasswordProtected {
		t.Error("SetPassword() should enable protection")
	}

	stored, _ := repo.FindByID("note-id-00001")
	if stored.IsPasswordProtected != (stored.PasswordHash != "") {
		t.Error("protection flag and hash presence must agree")
	}
}

func TestNoteService_DeleteCascades(t *testing.T) {
	repo := newMockNoteRepo()
	svc := NewNoteService(repo)

	resp, err := svc.Create("alice-id", &domain.CreateNoteRequest{Title: "T", Content: "C"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete("alice-id", resp.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := svc.Get(resp.ID, nil, ""); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}

	if _, err := svc.ResolveShort(resp.ShortURL); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("ResolveShort() after delete error = %v, want ErrNotFound", err)
	}

	notes, _ := svc.List("alice-id")
	if len(notes) != 0 {
		t.Errorf("List() after delete returned %d notes, want 0", len(notes))
	}
}

func TestNoteService_ResolveShort(t *testing.T) {
	repo := newMockNoteRepo()
	svc := NewNoteService(repo)

	protectedHash, _ := hash.Hash("1234")
	repo.Create(&domain.Note{ID: "open-note-001", Title: "T", Content: "C", UserID: "alice-id", ShortURL: "open-tok"})
	repo.Create(&domain.Note{ID: "lock-note-001", Title: "T", Content: "C", UserID: "alice-id", ShortURL: "lock-tok", IsPasswordProtected: true, PasswordHash: protectedHash})

	open, err := svc.ResolveShort("open-tok")
	if err != nil {
		t.Fatalf("ResolveShort() error = %v", err)
	}
	if open.Content != "C" {
		t.Errorf("ResolveShort() content = %q, want %q", open.Content, "C")
	}

	locked, err := svc.ResolveShort("lock-tok")
	if err != nil {
		t.Fatalf("ResolveShort() error = %v", err)
	}
	if locked.Content != "" {
		t.Errorf("ResolveShort() protected content = %q, want blank", locked.Content)
	}
	if !locked.IsPasswordProtected {
		t.Error("ResolveShort() should report protection")
	}

	if _, err := svc.ResolveShort("missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("ResolveShort() error = %v, want ErrNotFound", err)
	}
}
