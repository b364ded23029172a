package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/patient-api/internal/model"
	"github.com/jwalitptl/patient-api/internal/repository"
	"github.com/jwalitptl/patient-api/pkg/auth"
	apperrors "github.com/jwalitptl/patient-api/pkg/errors"
	"github.com/jwalitptl/patient-api/pkg/security"
	"github.com/jwalitptl/patient-api/pkg/validator"
)

type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error)
	Logout(token string)
}

type Service struct {
	repo        repository.UserRepository
	hasher      security.PasswordHasher
	jwt         auth.JWTService
	revocations *auth.RevocationStore
	validator   *validator.Validator

	minPasswordLength int
}

func NewService(repo repository.UserRepository, hasher security.PasswordHasher, jwt auth.JWTService, revocations *auth.RevocationStore, v *validator.Validator, minPasswordLength int) *Service {
	if minPasswordLength <= 0 {
		minPasswordLength = 6
	}
	return &Service{
		repo:              repo,
		hasher:            hasher,
		jwt:               jwt,
		revocations:       revocations,
		validator:         v,
		minPasswordLength: minPasswordLength,
	}
}

// Register validates and creates a new user account. Email and role are
// normalized to lower case before any checks so duplicates cannot hide
// behind casing.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))

	if req.FullName == "" || req.Email == "" || req.Username == "" || req.Password == "" || req.Role == "" {
		return nil, apperrors.MissingFields()
	}
	if !s.validator.EmailValid(req.Email) {
		return nil, apperrors.InvalidFormat("invalid email format")
	}
	if len(req.Password) < s.minPasswordLength {
		return nil, apperrors.InvalidFormat(fmt.Sprintf("password must be at least %d characters long", s.minPasswordLength))
	}
	if !model.IsAllowedRole(req.Role) {
		return nil, apperrors.InvalidFormat(fmt.Sprintf("role must be one of: %s", strings.Join(model.AllowedRoles, ", ")))
	}

	// Fast-path duplicate checks; the unique constraints in Create are
	// the real guarantee under concurrent registration.
	if taken, err := s.repo.ExistsByUsername(ctx, req.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, apperrors.DuplicateUsername()
	}
	if taken, err := s.repo.ExistsByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, apperrors.DuplicateEmail()
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.New(),
		FullName:     req.FullName,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		Role:         req.Role,
		Phone:        req.Phone,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a token. Credentials are checked
// before the active flag so a wrong password on a deactivated account
// reads the same as on a live one.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, apperrors.MissingFields()
	}
	if !s.validator.EmailValid(email) {
		return nil, apperrors.InvalidFormat("invalid email format")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidCredentials()
		}
		return nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.InvalidCredentials()
	}

	if !user.IsActive {
		return nil, apperrors.AccountInactive()
	}

	token, err := s.jwt.GenerateToken(user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &model.TokenResponse{AccessToken: token}, nil
}

// Logout revokes the presented token for the remainder of its lifetime.
func (s *Service) Logout(token string) {
	s.revocations.Revoke(token)
}
