package model

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord is a single clinical entry in a patient's ledger.
// Records are immutable once created.
type MedicalRecord struct {
	ID           uuid.UUID `json:"id" db:"id"`
	PatientID    uuid.UUID `json:"patient_id" db:"patient_id"`
	Diagnosis    string    `json:"diagnosis" db:"diagnosis"`
	Prescription *string   `json:"prescription,omitempty" db:"prescription"`
	Notes        *string   `json:"notes,omitempty" db:"notes"`
	VisitDate    time.Time `json:"visit_date" db:"visit_date"`
	CreatedBy    string    `json:"created_by" db:"created_by"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// MedicalRecordExport is a record joined with its patient's name, as
// exported to CSV.
type MedicalRecordExport struct {
	ID           uuid.UUID `db:"id"`
	PatientID    uuid.UUID `db:"patient_id"`
	PatientName  string    `db:"patient_name"`
	Diagnosis    string    `db:"diagnosis"`
	Prescription *string   `db:"prescription"`
	VisitDate    time.Time `db:"visit_date"`
	CreatedBy    string    `db:"created_by"`
}

// CreateMedicalRecordRequest carries medical record creation parameters
type CreateMedicalRecordRequest struct {
	Diagnosis    string  `json:"diagnosis"`
	Prescription *string `json:"prescription"`
	Notes        *string `json:"notes"`
}
