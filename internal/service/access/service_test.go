package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/patient-api/internal/model"
	apperrors "github.com/jwalitptl/patient-api/pkg/errors"
)

type stubUserRepo struct {
	user *model.User
	err  error
}

func (s *stubUserRepo) Create(ctx context.Context, user *model.User) error { return nil }
func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.user, s.err
}
func (s *stubUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}
func (s *stubUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return false, nil
}
func (s *stubUserRepo) SetActive(ctx context.Context, email string, active bool) error { return nil }

func TestAuthorize(t *testing.T) {
	doctor := &model.User{Email: "jane@example.com", Role: model.RoleDoctor, IsActive: true}

	t.Run("allows matching role", func(t *testing.T) {
		svc := NewService(&stubUserRepo{user: doctor})

		user, err := svc.Authorize(context.Background(), doctor.Email, model.RoleAdmin, model.RoleDoctor)
		require.NoError(t, err)
		assert.Equal(t, doctor.Email, user.Email)
	})

	t.Run("role check is case-insensitive", func(t *testing.T) {
		svc := NewService(&stubUserRepo{user: doctor})

		_, err := svc.Authorize(context.Background(), doctor.Email, "Doctor")
		assert.NoError(t, err)
	})

	t.Run("empty role set means any authenticated", func(t *testing.T) {
		svc := NewService(&stubUserRepo{user: doctor})

		_, err := svc.Authorize(context.Background(), doctor.Email)
		assert.NoError(t, err)
	})

	t.Run("rejects non-matching role", func(t *testing.T) {
		svc := NewService(&stubUserRepo{user: doctor})

		_, err := svc.Authorize(context.Background(), doctor.Email, model.RoleAdmin)
		assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
	})

	t.Run("deleted user reads as unauthenticated", func(t *testing.T) {
		svc := NewService(&stubUserRepo{err: apperrors.NotFound("user")})

		_, err := svc.Authorize(context.Background(), "ghost@example.com")
		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthenticated))
	})

	t.Run("inactive user is rejected", func(t *testing.T) {
		inactive := &model.User{Email: "jane@example.com", Role: model.RoleDoctor, IsActive: false}
		svc := NewService(&stubUserRepo{user: inactive})

		_, err := svc.Authorize(context.Background(), inactive.Email)
		assert.True(t, apperrors.Is(err, apperrors.ErrAccountInactive))
	})
}
