package repository

import (
	"context"
	"fmt"
	"net/http"

	"notelock-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type UserRepository interface {
	Create(user *domain.User) error
	FindByID(id string) (*domain.User, error)
	FindByUsername(username string) (*domain.User, error)
}

type userRepository struct {
	client *kivik.Client
	dbName string
}

func NewUserRepository(client *kivik.Client, dbName string) UserRepository {
	return &userRepository{
		client: client,
		dbName: dbName,
	}
}

// usernameDoc reserves a username. Creating it is atomic on the store side,
// so two concurrent registrations of the same name cannot both succeed.
type usernameDoc struct {
	UserID string `json:"user_id"`
}

func (r *userRepository) Create(user *domain.User) error {
	db := r.client.DB(r.dbName)

	reservationID := fmt.Sprintf("username:%s", user.Username)
	_, err := db.Put(context.Background(), reservationID, usernameDoc{UserID: user.ID})
	if err != nil {
		if kivik.HTTPStatus(err) == http.StatusConflict {
			return fmt.Errorf("username %s: %w", user.Username, ErrConflict)
		}
		return fmt.Errorf("failed to reserve username: %w", err)
	}

	docID := fmt.Sprintf("user:%s", user.ID)
	if _, err := db.Put(context.Background(), docID, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) FindByID(id string) (*domain.User, error) {
	db := r.client.DB(r.dbName)

	docID := fmt.Sprintf("user:%s", id)
	row := db.Get(context.Background(), docID)

	var user domain.User
	if err := row.ScanDoc(&user); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user by id: %w", err)
	}

	return &user, nil
}

func (r *userRepository) FindByUsername(username string) (*domain.User, error) {
	db := r.client.DB(r.dbName)

	reservationID := fmt.Sprintf("username:%s", username)
	row := db.Get(context.Background(), reservationID)

	var reservation usernameDoc
	if err := row.ScanDoc(&reservation); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, fmt.Errorf("username %s: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to resolve username: %w", err)
	}

	return r.FindByID(reservation.UserID)
}
