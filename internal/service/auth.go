package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/cardiolog/cardiolog-go/internal/crypto"
	"github.com/cardiolog/cardiolog-go/internal/model"
	"github.com/cardiolog/cardiolog-go/internal/repository"
)

var (
	ErrCredentialsRequired = errors.New("email and password are required")
	ErrEmailTaken          = errors.New("email already taken")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrMissingCredentials  = errors.New("missing bearer token")
	ErrUnauthorized        = errors.New("token subject no longer exists")
)

// UserStore is the persistence the auth service needs.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// TokenIssuer issues and verifies bearer tokens carrying a user ID.
type TokenIssuer interface {
	Issue(userID string) (string, error)
	Verify(token string) (string, error)
}

// AuthService handles registration, login and bearer-token authentication.
type AuthService struct {
	repo     UserStore
	tokens   TokenIssuer
	validate *validator.Validate
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo UserStore, tokens TokenIssuer) *AuthService {
	return &AuthService{
		repo:     repo,
		tokens:   tokens,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Register creates a new account and returns its ID.
func (s *AuthService) Register(ctx context.Context, req model.CredentialsRequest) (string, error) {
	if err := s.validate.Struct(req); err != nil {
		return "", ErrCredentialsRequired
	}

	_, err := s.repo.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return "", ErrEmailTaken
	case !errors.Is(err, repository.ErrUserNotFound):
		return "", err
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return "", err
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
	}

	// The unique index still catches a concurrent registration of the same email.
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return "", ErrEmailTaken
		}
		return "", err
	}

	return user.ID, nil
}

// VerifyCredentials returns the user matching email and password.
// Unknown email and wrong password both yield ErrInvalidCredentials.
func (s *AuthService) VerifyCredentials(ctx context.Context, email, password string) (*model.User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			crypto.BurnVerify(password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	match, err := crypto.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Login verifies the credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, req model.CredentialsRequest) (model.LoginResponse, error) {
	user, err := s.VerifyCredentials(ctx, req.Email, req.Password)
	if err != nil {
		return model.LoginResponse{}, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return model.LoginResponse{}, fmt.Errorf("issuing token: %w", err)
	}

	return model.LoginResponse{
		Token:   token,
		UserID:  user.ID,
		Message: "login successful",
	}, nil
}

// Authenticate resolves a bearer token to the identity of an existing user.
// Failures are ErrMissingCredentials, crypto.ErrInvalidToken,
// crypto.ErrExpiredToken or ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (model.Identity, error) {
	if token == "" {
		return model.Identity{}, ErrMissingCredentials
	}

	userID, err := s.tokens.Verify(token)
	if err != nil {
		return model.Identity{}, err
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.Identity{}, ErrUnauthorized
		}
		return model.Identity{}, err
	}

	return model.Identity{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}
