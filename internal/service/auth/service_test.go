package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/patient-api/internal/model"
	"github.com/jwalitptl/patient-api/pkg/auth"
	apperrors "github.com/jwalitptl/patient-api/pkg/errors"
	"github.com/jwalitptl/patient-api/pkg/security"
	"github.com/jwalitptl/patient-api/pkg/validator"
)

type mockUserRepo struct {
	createFn           func(ctx context.Context, user *model.User) error
	getByEmailFn       func(ctx context.Context, email string) (*model.User, error)
	existsByEmailFn    func(ctx context.Context, email string) (bool, error)
	existsByUsernameFn func(ctx context.Context, username string) (bool, error)
	setActiveFn        func(ctx context.Context, email string, active bool) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, apperrors.NotFound("user")
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFn != nil {
		return m.existsByEmailFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepo) SetActive(ctx context.Context, email string, active bool) error {
	if m.setActiveFn != nil {
		return m.setActiveFn(ctx, email, active)
	}
	return nil
}

func newTestService(repo *mockUserRepo) *Service {
	hasher := security.NewBcryptHasher(4)
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	revocations := auth.NewRevocationStore(time.Hour)
	return NewService(repo, hasher, jwtSvc, revocations, validator.New(), 6)
}

func validRegisterRequest() *model.RegisterRequest {
	return &model.RegisterRequest{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Username: "jane",
		Password: "secret1",
		Role:     "doctor",
	}
}

func TestRegister(t *testing.T) {
	t.Run("success stores normalized email and role", func(t *testing.T) {
		var created *model.User
		repo := &mockUserRepo{
			createFn: func(ctx context.Context, user *model.User) error {
				created = user
				return nil
			},
		}
		svc := newTestService(repo)

		req := validRegisterRequest()
		req.Email = "Jane@Example.COM"
		req.Role = "Doctor"

		user, err := svc.Register(context.Background(), req)
		require.NoError(t, err)
		require.NotNil(t, created)

		assert.Equal(t, "jane@example.com", user.Email)
		assert.Equal(t, "doctor", user.Role)
		assert.True(t, user.IsActive)
		assert.NotEqual(t, "secret1", user.PasswordHash)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := newTestService(&mockUserRepo{})

		req := validRegisterRequest()
		req.Password = ""

		_, err := svc.Register(context.Background(), req)
		assert.True(t, apperrors.Is(err, apperrors.ErrMissingFields))
	})

	t.Run("invalid email", func(t *testing.T) {
		svc := newTestService(&mockUserRepo{})

		req := validRegisterRequest()
		req.Email = "not-an-email"

		_, err := svc.Register(context.Background(), req)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidFormat))
	})

	t.Run("weak password", func(t *testing.T) {
		svc := newTestService(&mockUserRepo{})

		req := validRegisterRequest()
		req.Password = "short"

		_, err := svc.Register(context.Background(), req)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidFormat))
	})

	t.Run("invalid role", func(t *testing.T) {
		svc := newTestService(&mockUserRepo{})

		req := validRegisterRequest()
		req.Role = "janitor"

		_, err := svc.Register(context.Background(), req)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidFormat))
	})

	t.Run("duplicate username", func(t *testing.T) {
		repo := &mockUserRepo{
			existsByUsernameFn: func(ctx context.Context, username string) (bool, error) {
				return true, nil
			},
		}
		svc := newTestService(repo)

		_, err := svc.Register(context.Background(), validRegisterRequest())
		assert.True(t, apperrors.Is(err, apperrors.ErrDuplicateUsername))
	})

	t.Run("duplicate email is checked case-insensitively", func(t *testing.T) {
		var checked string
		repo := &mockUserRepo{
			existsByEmailFn: func(ctx context.Context, email string) (bool, error) {
				checked = email
				return true, nil
			},
		}
		svc := newTestService(repo)

		req := validRegisterRequest()
		req.Email = "JANE@example.com"

		_, err := svc.Register(context.Background(), req)
		assert.True(t, apperrors.Is(err, apperrors.ErrDuplicateEmail))
		assert.Equal(t, "jane@example.com", checked)
	})

	t.Run("constraint violation on insert surfaces as duplicate", func(t *testing.T) {
		// The pre-checks race with concurrent registration; the insert
		// itself reports the loser.
		repo := &mockUserRepo{
			createFn: func(ctx context.Context, user *model.User) error {
				return apperrors.DuplicateEmail()
			},
		}
		svc := newTestService(repo)

		_, err := svc.Register(context.Background(), validRegisterRequest())
		assert.True(t, apperrors.Is(err, apperrors.ErrDuplicateEmail))
	})
}

func TestLogin(t *testing.T) {
	hasher := security.NewBcryptHasher(4)
	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)

	user := func(active bool) *model.User {
		return &model.User{
			Email:        "jane@example.com",
			PasswordHash: hash,
			Role:         model.RoleDoctor,
			IsActive:     active,
		}
	}

	t.Run("success issues token", func(t *testing.T) {
		repo := &mockUserRepo{
			getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
				return user(true), nil
			},
		}
		svc := newTestService(repo)

		tokens, err := svc.Login(context.Background(), &model.LoginRequest{
			Email:    "Jane@Example.com",
			Password: "secret1",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
	})

	t.Run("unknown email reads as invalid credentials", func(t *testing.T) {
		svc := newTestService(&mockUserRepo{})

		_, err := svc.Login(context.Background(), &model.LoginRequest{
			Email:    "nobody@example.com",
			Password: "secret1",
		})
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidCredentials))
	})

	t.Run("wrong password on inactive account reads as invalid credentials", func(t *testing.T) {
		// Credentials are checked before the active flag; flipping the
		// order would leak which accounts exist but are disabled.
		repo := &mockUserRepo{
			getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
				return user(false), nil
			},
		}
		svc := newTestService(repo)

		_, err := svc.Login(context.Background(), &model.LoginRequest{
			Email:    "jane@example.com",
			Password: "wrong",
		})
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidCredentials))
	})

	t.Run("correct password on inactive account reads as inactive", func(t *testing.T) {
		repo := &mockUserRepo{
			getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
				return user(false), nil
			},
		}
		svc := newTestService(repo)

		_, err := svc.Login(context.Background(), &model.LoginRequest{
			Email:    "jane@example.com",
			Password: "secret1",
		})
		assert.True(t, apperrors.Is(err, apperrors.ErrAccountInactive))
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := newTestService(&mockUserRepo{})

		_, err := svc.Login(context.Background(), &model.LoginRequest{Email: "jane@example.com"})
		assert.True(t, apperrors.Is(err, apperrors.ErrMissingFields))
	})

	t.Run("malformed email is rejected before the lookup", func(t *testing.T) {
		repo := &mockUserRepo{
			getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
				t.Fatal("lookup must not run for a malformed email")
				return nil, nil
			},
		}
		svc := newTestService(repo)

		_, err := svc.Login(context.Background(), &model.LoginRequest{
			Email:    "not-an-email",
			Password: "secret1",
		})
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidFormat))
	})
}
