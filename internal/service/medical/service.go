package medical

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/patient-api/internal/model"
	"github.com/jwalitptl/patient-api/internal/repository"
	"github.com/jwalitptl/patient-api/internal/service/audit"
	"github.com/jwalitptl/patient-api/internal/service/notifier"
	apperrors "github.com/jwalitptl/patient-api/pkg/errors"
)

type MedicalRecordService interface {
	Create(ctx context.Context, patientID uuid.UUID, actor string, req *model.CreateMedicalRecordRequest) (*model.MedicalRecord, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error)
}

// Service is the per-patient clinical ledger. Records are append-only:
// no update or delete exists.
type Service struct {
	repo     repository.MedicalRecordRepository
	patients repository.PatientRepository
	auditor  *audit.Service
	notifier *notifier.Service
}

func NewService(repo repository.MedicalRecordRepository, patients repository.PatientRepository, auditor *audit.Service, notifier *notifier.Service) *Service {
	return &Service{
		repo:     repo,
		patients: patients,
		auditor:  auditor,
		notifier: notifier,
	}
}

func (s *Service) Create(ctx context.Context, patientID uuid.UUID, actor string, req *model.CreateMedicalRecordRequest) (*model.MedicalRecord, error) {
	if err := s.requireActivePatient(ctx, patientID); err != nil {
		return nil, err
	}

	diagnosis := strings.TrimSpace(req.Diagnosis)
	if diagnosis == "" {
		return nil, apperrors.MissingFields()
	}

	now := time.Now().UTC()
	record := &model.MedicalRecord{
		ID:           uuid.New(),
		PatientID:    patientID,
		Diagnosis:    diagnosis,
		Prescription: req.Prescription,
		Notes:        req.Notes,
		VisitDate:    now,
		CreatedBy:    actor,
		CreatedAt:    now,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, model.AuditEntityMedicalRecord, record.ID, model.AuditActionCreate, actor, map[string]interface{}{
		"patient_id": record.PatientID,
		"diagnosis":  record.Diagnosis,
	})
	s.notifier.Emit(notifier.EventMedicalRecordCreated, record)

	return record, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error) {
	if err := s.requireActivePatient(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.ListForPatient(ctx, patientID)
}

func (s *Service) requireActivePatient(ctx context.Context, patientID uuid.UUID) error {
	patient, err := s.patients.Get(ctx, patientID)
	if err != nil {
		return err
	}
	if patient.IsDeleted {
		return apperrors.NotFound("patient")
	}
	return nil
}
