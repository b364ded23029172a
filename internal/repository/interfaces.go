package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/patient-api/internal/model"
)

// All repository interfaces in one file
type (
	// UserRepository owns user rows. Create relies on unique constraints
	// for email and username; violations surface as Duplicate* errors.
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		ExistsByEmail(ctx context.Context, email string) (bool, error)
		ExistsByUsername(ctx context.Context, username string) (bool, error)
		SetActive(ctx context.Context, email string, active bool) error
	}

	// PatientRepository owns patient rows including soft-deleted ones.
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		SoftDelete(ctx context.Context, id uuid.UUID, by string, at time.Time) error
		Restore(ctx context.Context, id uuid.UUID, by string, at time.Time) error
		HardDelete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, int64, error)
		ListAllActive(ctx context.Context) ([]*model.Patient, error)
	}

	MedicalRecordRepository interface {
		Create(ctx context.Context, record *model.MedicalRecord) error
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error)
		ListAllWithPatient(ctx context.Context) ([]*model.MedicalRecordExport, error)
	}

	AuditRepository interface {
		Create(ctx context.Context, entry *model.AuditLog) error
		ListForEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*model.AuditLog, error)
	}
)
