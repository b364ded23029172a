package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/patient-api/internal/repository"
	apperrors "github.com/jwalitptl/patient-api/pkg/errors"
)

const timestampLayout = time.RFC3339

var recordHeader = []string{"ID", "Patient ID", "Patient Name", "Diagnosis", "Prescription", "Visit Date", "Doctor"}

// Service streams CSV exports of the registry and the ledger. Column
// order is part of the contract with downstream reporting and must not
// change.
type Service struct {
	patients repository.PatientRepository
	records  repository.MedicalRecordRepository
}

func NewService(patients repository.PatientRepository, records repository.MedicalRecordRepository) *Service {
	return &Service{
		patients: patients,
		records:  records,
	}
}

// WritePatientsCSV writes all active patients to w.
func (s *Service) WritePatientsCSV(ctx context.Context, w io.Writer) error {
	patients, err := s.patients.ListAllActive(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "Name", "Age", "Contact", "Created At", "Created By"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, p := range patients {
		row := []string{
			p.ID.String(),
			p.Name,
			strconv.Itoa(p.Age),
			p.Contact,
			p.CreatedAt.Format(timestampLayout),
			p.CreatedBy,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WritePatientRecordsCSV writes one patient's ledger to w, using the same
// columns as the full ledger export. Soft-deleted patients are not exported.
func (s *Service) WritePatientRecordsCSV(ctx context.Context, patientID uuid.UUID, w io.Writer) error {
	patient, err := s.patients.Get(ctx, patientID)
	if err != nil {
		return err
	}
	if patient.IsDeleted {
		return apperrors.NotFound("patient")
	}

	records, err := s.records.ListForPatient(ctx, patientID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(recordHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, r := range records {
		prescription := ""
		if r.Prescription != nil {
			prescription = *r.Prescription
		}
		row := []string{
			r.ID.String(),
			r.PatientID.String(),
			patient.Name,
			r.Diagnosis,
			prescription,
			r.VisitDate.Format(timestampLayout),
			r.CreatedBy,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteRecordsCSV writes the full medical record ledger to w.
func (s *Service) WriteRecordsCSV(ctx context.Context, w io.Writer) error {
	records, err := s.records.ListAllWithPatient(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(recordHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, r := range records {
		prescription := ""
		if r.Prescription != nil {
			prescription = *r.Prescription
		}
		row := []string{
			r.ID.String(),
			r.PatientID.String(),
			r.PatientName,
			r.Diagnosis,
			prescription,
			r.VisitDate.Format(timestampLayout),
			r.CreatedBy,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
