package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/patient-api/internal/model"
	"github.com/jwalitptl/patient-api/internal/repository"
	apperrors "github.com/jwalitptl/patient-api/pkg/errors"
)

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(base BaseRepository) repository.PatientRepository {
	return &patientRepository{base}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, name, age, contact, is_deleted,
			created_at, created_by, updated_at, updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			patient.ID,
			patient.Name,
			patient.Age,
			patient.Contact,
			patient.IsDeleted,
			patient.CreatedAt,
			patient.CreatedBy,
			patient.UpdatedAt,
			patient.UpdatedBy,
		)
		return err
	})
	if err != nil {
		return apperrors.Persistence(err)
	}
	return nil
}

// Get returns the row whether or not it is soft-deleted; callers decide
// how deletion affects visibility.
func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE id = $1`

	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		return nil, notFoundOr(err, "patient")
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients SET
			name = $1, age = $2, contact = $3,
			updated_at = $4, updated_by = $5
		WHERE id = $6 AND is_deleted = FALSE
	`

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, query,
			patient.Name,
			patient.Age,
			patient.Contact,
			patient.UpdatedAt,
			patient.UpdatedBy,
			patient.ID,
		)
		if err != nil {
			return err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return apperrors.NotFound("patient")
		}
		return nil
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return apperrors.Persistence(err)
	}
	return nil
}

func (r *patientRepository) SoftDelete(ctx context.Context, id uuid.UUID, by string, at time.Time) error {
	query := `
		UPDATE patients SET
			is_deleted = TRUE, deleted_at = $1, deleted_by = $2,
			updated_at = $1, updated_by = $2
		WHERE id = $3 AND is_deleted = FALSE
	`
	return r.conditionalUpdate(ctx, query, at, by, id)
}

func (r *patientRepository) Restore(ctx context.Context, id uuid.UUID, by string, at time.Time) error {
	query := `
		UPDATE patients SET
			is_deleted = FALSE, deleted_at = NULL, deleted_by = NULL,
			updated_at = $1, updated_by = $2
		WHERE id = $3 AND is_deleted = TRUE
	`
	return r.conditionalUpdate(ctx, query, at, by, id)
}

// conditionalUpdate runs an update whose WHERE clause encodes the state
// precondition; zero rows affected means the precondition failed.
func (r *patientRepository) conditionalUpdate(ctx context.Context, query string, at time.Time, by string, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, query, at, by, id)
	if err != nil {
		return apperrors.Persistence(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Persistence(err)
	}
	if rows == 0 {
		return apperrors.NotFound("patient")
	}
	return nil
}

// HardDelete removes the row; medical records go with it via the
// ON DELETE CASCADE foreign key.
func (r *patientRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM patients WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Persistence(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Persistence(err)
	}
	if rows == 0 {
		return apperrors.NotFound("patient")
	}
	return nil
}

// ListAllActive returns every non-deleted patient, oldest first, for
// full exports.
func (r *patientRepository) ListAllActive(ctx context.Context) ([]*model.Patient, error) {
	query := `SELECT * FROM patients WHERE is_deleted = FALSE ORDER BY created_at ASC`

	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query); err != nil {
		return nil, apperrors.Persistence(err)
	}
	return patients, nil
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, int64, error) {
	baseQuery := ` FROM patients WHERE 1=1`
	var args []interface{}

	if !filters.IncludeDeleted {
		baseQuery += " AND is_deleted = FALSE"
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		baseQuery += " AND name ILIKE $1"
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+baseQuery, args...); err != nil {
		return nil, 0, apperrors.Persistence(err)
	}

	offset := (filters.Page - 1) * filters.PerPage
	args = append(args, filters.PerPage, offset)
	query := fmt.Sprintf("SELECT *%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		baseQuery, len(args)-1, len(args))

	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, 0, apperrors.Persistence(err)
	}

	return patients, total, nil
}
