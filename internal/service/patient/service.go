package patient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/patient-api/internal/model"
	"github.com/jwalitptl/patient-api/internal/repository"
	"github.com/jwalitptl/patient-api/internal/service/audit"
	"github.com/jwalitptl/patient-api/internal/service/notifier"
	apperrors "github.com/jwalitptl/patient-api/pkg/errors"
)

type PatientService interface {
	Create(ctx context.Context, actor string, req *model.CreatePatientRequest) (*model.Patient, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	List(ctx context.Context, filters *model.PatientFilters) (*model.PatientList, error)
	Update(ctx context.Context, id uuid.UUID, actor string, req *model.UpdatePatientRequest) (*model.Patient, error)
	SoftDelete(ctx context.Context, id uuid.UUID, actor string) error
	Restore(ctx context.Context, id uuid.UUID, actor string) error
	HardDelete(ctx context.Context, id uuid.UUID, actor string) error
}

type Service struct {
	repo     repository.PatientRepository
	auditor  *audit.Service
	notifier *notifier.Service
}

func NewService(repo repository.PatientRepository, auditor *audit.Service, notifier *notifier.Service) *Service {
	return &Service{
		repo:     repo,
		auditor:  auditor,
		notifier: notifier,
	}
}

func (s *Service) Create(ctx context.Context, actor string, req *model.CreatePatientRequest) (*model.Patient, error) {
	name := strings.TrimSpace(req.Name)
	contact := strings.TrimSpace(req.Contact)

	if name == "" || contact == "" || req.Age == nil {
		return nil, apperrors.MissingFields()
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateAge(*req.Age); err != nil {
		return nil, err
	}
	if err := validateContact(contact); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	patient := &model.Patient{
		ID:        uuid.New(),
		Name:      name,
		Age:       *req.Age,
		Contact:   contact,
		CreatedAt: now,
		CreatedBy: actor,
		UpdatedAt: now,
		UpdatedBy: actor,
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, model.AuditEntityPatient, patient.ID, model.AuditActionCreate, actor, patient)
	s.notifier.Emit(notifier.EventPatientCreated, patient)

	return patient, nil
}

// Get hides soft-deleted patients; only list with include_deleted
// surfaces them.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient.IsDeleted {
		return nil, apperrors.NotFound("patient")
	}
	return patient, nil
}

func (s *Service) List(ctx context.Context, filters *model.PatientFilters) (*model.PatientList, error) {
	filters.Normalize()

	patients, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	return &model.PatientList{
		Patients:   patients,
		Pagination: model.NewPaginationMeta(filters.Page, filters.PerPage, total),
	}, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, actor string, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Only changed fields enter the delta; a submitted value equal to
	// the current one is not a change.
	delta := map[string]model.FieldChange{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		if name != patient.Name {
			delta["name"] = model.FieldChange{Old: patient.Name, New: name}
			patient.Name = name
		}
	}
	if req.Age != nil {
		if err := validateAge(*req.Age); err != nil {
			return nil, err
		}
		if *req.Age != patient.Age {
			delta["age"] = model.FieldChange{Old: patient.Age, New: *req.Age}
			patient.Age = *req.Age
		}
	}
	if req.Contact != nil {
		contact := strings.TrimSpace(*req.Contact)
		if err := validateContact(contact); err != nil {
			return nil, err
		}
		if contact != patient.Contact {
			delta["contact"] = model.FieldChange{Old: patient.Contact, New: contact}
			patient.Contact = contact
		}
	}

	// Update stamps apply even when nothing else changed.
	patient.UpdatedAt = time.Now().UTC()
	patient.UpdatedBy = actor

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}

	if len(delta) > 0 {
		s.auditor.Record(ctx, model.AuditEntityPatient, patient.ID, model.AuditActionUpdate, actor, delta)
		s.notifier.Emit(notifier.EventPatientUpdated, patient)
	}

	return patient, nil
}

func (s *Service) SoftDelete(ctx context.Context, id uuid.UUID, actor string) error {
	if err := s.repo.SoftDelete(ctx, id, actor, time.Now().UTC()); err != nil {
		return err
	}

	s.auditor.Record(ctx, model.AuditEntityPatient, id, model.AuditActionDelete, actor, nil)
	s.notifier.Emit(notifier.EventPatientDeleted, map[string]interface{}{"id": id})
	return nil
}

func (s *Service) Restore(ctx context.Context, id uuid.UUID, actor string) error {
	if err := s.repo.Restore(ctx, id, actor, time.Now().UTC()); err != nil {
		return err
	}

	s.auditor.Record(ctx, model.AuditEntityPatient, id, model.AuditActionRestore, actor, nil)
	s.notifier.Emit(notifier.EventPatientRestored, map[string]interface{}{"id": id})
	return nil
}

// HardDelete removes the patient and, through the cascade, its medical
// records. It emits a DELETE audit entry marked hard for parity with
// soft delete.
func (s *Service) HardDelete(ctx context.Context, id uuid.UUID, actor string) error {
	if err := s.repo.HardDelete(ctx, id); err != nil {
		return err
	}

	s.auditor.Record(ctx, model.AuditEntityPatient, id, model.AuditActionDelete, actor, map[string]interface{}{"hard": true})
	s.notifier.Emit(notifier.EventPatientDeleted, map[string]interface{}{"id": id, "hard": true})
	return nil
}

func validateName(name string) error {
	if len(name) < model.MinNameLength {
		return apperrors.InvalidFormat(fmt.Sprintf("name must be at least %d characters long", model.MinNameLength))
	}
	return nil
}

func validateAge(age int) error {
	if age < model.MinPatientAge || age > model.MaxPatientAge {
		return apperrors.InvalidFormat(fmt.Sprintf("age must be between %d and %d", model.MinPatientAge, model.MaxPatientAge))
	}
	return nil
}

func validateContact(contact string) error {
	if len(contact) < model.MinContactLength {
		return apperrors.InvalidFormat(fmt.Sprintf("contact must be at least %d characters long", model.MinContactLength))
	}
	return nil
}
