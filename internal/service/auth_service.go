package service

import (
	"fmt"
	"time"

	"notelock-server/internal/domain"
	"notelock-server/internal/repository"
	"notelock-server/pkg/hash"
	"notelock-server/pkg/ident"
	"notelock-server/pkg/token"
)

type AuthService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register creates a user and issues a token. Username uniqueness is
// enforced atomically by the store, so a concurrent duplicate registration
// surfaces as a conflict rather than a second account.
func (s *AuthService) Register(req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	hashedPassword, err := hash.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := ident.NewID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           userID,
		Username:     req.Username,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	signed, err := token.Generate(user.ID, user.Username, s.jwtExpiration, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &domain.AuthResponse{
		User:  user.Response(),
		Token: signed,
	}, nil
}

// Login verifies credentials. Unknown username and wrong password yield the
// same error so the response does not leak which one failed.
func (s *AuthService) Login(req *domain.LoginRequest) (*domain.AuthResponse, error) {
	user, err := s.userRepo.FindByUsername(req.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := hash.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	signed, err := token.Generate(user.ID, user.Username, s.jwtExpiration, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &domain.AuthResponse{
		User:  user.Response(),
		Token: signed,
	}, nil
}

func (s *AuthService) Me(userID string) (*domain.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	return user.Response(), nil
}
