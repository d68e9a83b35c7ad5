package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jobtracker/jobtracker-go/internal/crypto"
	"github.com/jobtracker/jobtracker-go/internal/model"
	"github.com/jobtracker/jobtracker-go/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrInvalidToken       = errors.New("not authorized, token failed")
)

// AuthService handles accounts, sessions and account removal.
type AuthService struct {
	db         *sql.DB
	users      *repository.UserRepository
	tokens     *crypto.TokenIssuer
	adminEmail string
	now        func() time.Time
	verify     func(password, encoded string) (bool, error)
}

// dummyHash is verified against when a login names an unknown email, so
// both paths pay for one Argon2id run.
var dummyHash = sync.OnceValue(func() string {
	h, err := crypto.HashPassword("jobtracker-dummy-password")
	if err != nil {
		panic(fmt.Sprintf("hash dummy password: %v", err))
	}
	return h
})

// NewAuthService creates a new AuthService. Registrations using adminEmail
// are granted the admin flag; an empty adminEmail disables that.
func NewAuthService(db *sql.DB, users *repository.UserRepository, tokens *crypto.TokenIssuer, adminEmail string) *AuthService {
	return &AuthService{
		db:         db,
		users:      users,
		tokens:     tokens,
		adminEmail: normalizeEmail(adminEmail),
		now:        func() time.Time { return time.Now().UTC().Truncate(time.Second) },
		verify:     crypto.VerifyPassword,
	}
}

// Register creates a new user account and returns an auth token.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		return model.AuthResponse{}, err
	}

	_, err := s.users.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return model.AuthResponse{}, ErrEmailTaken
	case !errors.Is(err, repository.ErrUserNotFound):
		return model.AuthResponse{}, err
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return model.AuthResponse{}, err
	}

	now := s.now()
	user := &model.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		IsAdmin:      s.adminEmail != "" && req.Email == s.adminEmail,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.AuthResponse{}, ErrEmailTaken
		}
		return model.AuthResponse{}, err
	}

	return s.authResponse(user)
}

// Login authenticates a user and returns an auth token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_, _ = s.verify(req.Password, dummyHash())
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}

	match, err := s.verify(req.Password, user.PasswordHash)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if !match {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	return s.authResponse(user)
}

// Authenticate resolves a bearer token to the user it was issued for. The
// returned user never carries the password hash.
func (s *AuthService) Authenticate(ctx context.Context, token string) (model.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return model.User{}, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}

	user.PasswordHash = ""
	return *user, nil
}

// ListUsers returns every account, newest first, without password hashes.
func (s *AuthService) ListUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.UserResponse, len(users))
	for i, u := range users {
		out[i] = u.Response()
	}
	return out, nil
}

// DeleteUser removes targetID together with all of its jobs and skills.
// Only the account owner or an admin may do this. The three deletes share
// one transaction, so a failure leaves every record in place.
func (s *AuthService) DeleteUser(ctx context.Context, targetID string, caller model.User) error {
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !caller.IsAdmin && caller.ID != target.ID {
		return fmt.Errorf("%w to delete this user", ErrNotAuthorized)
	}

	var jobs, skills int64
	err = repository.WithTx(ctx, s.db, func(ctx context.Context, tx repository.DBTX) error {
		var err error
		if jobs, err = repository.NewJobRepository(tx).DeleteByUser(ctx, target.ID); err != nil {
			return fmt.Errorf("delete jobs: %w", err)
		}
		if skills, err = repository.NewSkillRepository(tx).DeleteByUser(ctx, target.ID); err != nil {
			return fmt.Errorf("delete skills: %w", err)
		}
		if err = repository.NewUserRepository(tx).Delete(ctx, target.ID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				// A concurrent delete won the race.
				return ErrUserNotFound
			}
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "user deleted",
		"user_id", target.ID, "by", caller.ID, "jobs", jobs, "skills", skills)
	return nil
}

func (s *AuthService) authResponse(user *model.User) (model.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		Token:   token,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
