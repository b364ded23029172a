package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/patient-api/internal/model"
	"github.com/jwalitptl/patient-api/internal/repository"
	apperrors "github.com/jwalitptl/patient-api/pkg/errors"
)

type medicalRecordRepository struct {
	BaseRepository
}

func NewMedicalRecordRepository(base BaseRepository) repository.MedicalRecordRepository {
	return &medicalRecordRepository{base}
}

func (r *medicalRecordRepository) Create(ctx context.Context, record *model.MedicalRecord) error {
	query := `
		INSERT INTO medical_records (
			id, patient_id, diagnosis, prescription, notes,
			visit_date, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			record.ID,
			record.PatientID,
			record.Diagnosis,
			record.Prescription,
			record.Notes,
			record.VisitDate,
			record.CreatedBy,
			record.CreatedAt,
		)
		return err
	})
	if err != nil {
		return apperrors.Persistence(err)
	}
	return nil
}

// ListAllWithPatient joins every record to its patient's name for the
// full-ledger export. Records of soft-deleted patients are included;
// the ledger outlives the soft delete.
func (r *medicalRecordRepository) ListAllWithPatient(ctx context.Context) ([]*model.MedicalRecordExport, error) {
	query := `
		SELECT m.id, m.patient_id, p.name AS patient_name,
		       m.diagnosis, m.prescription, m.visit_date, m.created_by
		FROM medical_records m
		JOIN patients p ON p.id = m.patient_id
		ORDER BY m.visit_date DESC
	`

	rows := []*model.MedicalRecordExport{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, apperrors.Persistence(err)
	}
	return rows, nil
}

func (r *medicalRecordRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error) {
	query := `SELECT * FROM medical_records WHERE patient_id = $1 ORDER BY visit_date DESC`

	records := []*model.MedicalRecord{}
	if err := r.db.SelectContext(ctx, &records, query, patientID); err != nil {
		return nil, apperrors.Persistence(err)
	}
	return records, nil
}
