package access

import (
	"context"
	"strings"

	"github.com/jwalitptl/patient-api/internal/model"
	"github.com/jwalitptl/patient-api/internal/repository"
	apperrors "github.com/jwalitptl/patient-api/pkg/errors"
)

// Service resolves an authenticated identity to a user and enforces the
// role checks the route requires.
type Service struct {
	users repository.UserRepository
}

func NewService(users repository.UserRepository) *Service {
	return &Service{users: users}
}

// Authorize resolves email to its user and verifies the account is
// active and, when roles is non-empty, that the user holds one of them.
// A token whose user no longer exists is treated as unauthenticated.
func (s *Service) Authorize(ctx context.Context, email string, roles ...string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthenticated(err)
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, apperrors.AccountInactive()
	}

	if len(roles) == 0 {
		return user, nil
	}
	for _, role := range roles {
		if strings.EqualFold(user.Role, role) {
			return user, nil
		}
	}
	return nil, apperrors.Forbidden("insufficient permissions for this operation")
}
