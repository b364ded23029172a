package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/patient-api/internal/model"
	"github.com/jwalitptl/patient-api/internal/repository"
	apperrors "github.com/jwalitptl/patient-api/pkg/errors"
)

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (
			id, full_name, email, username, password_hash,
			role, phone, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			user.ID,
			user.FullName,
			user.Email,
			user.Username,
			user.PasswordHash,
			user.Role,
			user.Phone,
			user.IsActive,
			user.CreatedAt,
			user.UpdatedAt,
		)
		return err
	})
	if err != nil {
		// The unique constraints are the source of truth for duplicate
		// detection; the service-level pre-checks are only a fast path.
		switch uniqueConstraintOf(err) {
		case "users_email_key":
			return apperrors.DuplicateEmail()
		case "users_username_key":
			return apperrors.DuplicateUsername()
		}
		return apperrors.Persistence(err)
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT * FROM users WHERE email = $1`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, apperrors.Persistence(err)
	}
	return exists, nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`
	if err := r.db.GetContext(ctx, &exists, query, username); err != nil {
		return false, apperrors.Persistence(err)
	}
	return exists, nil
}

func (r *userRepository) SetActive(ctx context.Context, email string, active bool) error {
	query := `UPDATE users SET is_active = $1, updated_at = NOW() WHERE email = $2`

	result, err := r.db.ExecContext(ctx, query, active, email)
	if err != nil {
		return apperrors.Persistence(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Persistence(err)
	}
	if rows == 0 {
		return apperrors.NotFound("user")
	}
	return nil
}
