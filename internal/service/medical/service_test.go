package medical

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/patient-api/internal/model"
	"github.com/jwalitptl/patient-api/internal/service/audit"
	"github.com/jwalitptl/patient-api/internal/service/notifier"
	apperrors "github.com/jwalitptl/patient-api/pkg/errors"
	"github.com/jwalitptl/patient-api/pkg/logger"
	"github.com/jwalitptl/patient-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("medical_service_test")

type mockRecordRepo struct {
	created []*model.MedicalRecord
	listFn  func(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error)
}

func (m *mockRecordRepo) Create(ctx context.Context, record *model.MedicalRecord) error {
	m.created = append(m.created, record)
	return nil
}

func (m *mockRecordRepo) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error) {
	if m.listFn != nil {
		return m.listFn(ctx, patientID)
	}
	return nil, nil
}

func (m *mockRecordRepo) ListAllWithPatient(ctx context.Context) ([]*model.MedicalRecordExport, error) {
	return nil, nil
}

type mockPatientRepo struct {
	getFn func(ctx context.Context, id uuid.UUID) (*model.Patient, error)
}

func (m *mockPatientRepo) Create(ctx context.Context, p *model.Patient) error { return nil }
func (m *mockPatientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return m.getFn(ctx, id)
}
func (m *mockPatientRepo) Update(ctx context.Context, p *model.Patient) error { return nil }
func (m *mockPatientRepo) SoftDelete(ctx context.Context, id uuid.UUID, by string, at time.Time) error {
	return nil
}
func (m *mockPatientRepo) Restore(ctx context.Context, id uuid.UUID, by string, at time.Time) error {
	return nil
}
func (m *mockPatientRepo) HardDelete(ctx context.Context, id uuid.UUID) error { return nil }
func (m *mockPatientRepo) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, int64, error) {
	return nil, 0, nil
}
func (m *mockPatientRepo) ListAllActive(ctx context.Context) ([]*model.Patient, error) {
	return nil, nil
}

type mockAuditRepo struct {
	entries []*model.AuditLog
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *model.AuditLog) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditRepo) ListForEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*model.AuditLog, error) {
	return m.entries, nil
}

type nopBroker struct{}

func (nopBroker) Publish(ctx context.Context, channel string, message interface{}) error { return nil }
func (nopBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, nil
}
func (nopBroker) Close() error { return nil }

func newTestService(t *testing.T, records *mockRecordRepo, patients *mockPatientRepo, audits *mockAuditRepo) *Service {
	t.Helper()
	lg := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	auditSvc := audit.NewService(audits, lg, testMetrics)
	notifierSvc := notifier.NewService(nopBroker{}, "test-events", 64, lg, testMetrics)
	return NewService(records, patients, auditSvc, notifierSvc)
}

func activePatient(id uuid.UUID) *mockPatientRepo {
	return &mockPatientRepo{
		getFn: func(ctx context.Context, gotID uuid.UUID) (*model.Patient, error) {
			return &model.Patient{ID: gotID, Name: "John Smith"}, nil
		},
	}
}

func TestCreateRecord(t *testing.T) {
	patientID := uuid.New()

	t.Run("success audits patient and diagnosis", func(t *testing.T) {
		records := &mockRecordRepo{}
		audits := &mockAuditRepo{}
		svc := newTestService(t, records, activePatient(patientID), audits)

		record, err := svc.Create(context.Background(), patientID, "doc@example.com", &model.CreateMedicalRecordRequest{
			Diagnosis: "Hypertension",
		})
		require.NoError(t, err)

		assert.Equal(t, patientID, record.PatientID)
		assert.Equal(t, "doc@example.com", record.CreatedBy)
		assert.Equal(t, record.CreatedAt, record.VisitDate)
		require.Len(t, records.created, 1)

		require.Len(t, audits.entries, 1)
		assert.Equal(t, model.AuditEntityMedicalRecord, audits.entries[0].EntityType)
		assert.Equal(t, model.AuditActionCreate, audits.entries[0].Action)

		var changes map[string]interface{}
		require.NoError(t, json.Unmarshal(audits.entries[0].Changes, &changes))
		assert.Equal(t, "Hypertension", changes["diagnosis"])
	})

	t.Run("empty diagnosis", func(t *testing.T) {
		svc := newTestService(t, &mockRecordRepo{}, activePatient(patientID), &mockAuditRepo{})

		_, err := svc.Create(context.Background(), patientID, "doc@example.com", &model.CreateMedicalRecordRequest{
			Diagnosis: "   ",
		})
		assert.True(t, apperrors.Is(err, apperrors.ErrMissingFields))
	})

	t.Run("soft-deleted patient is not found", func(t *testing.T) {
		patients := &mockPatientRepo{
			getFn: func(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
				return &model.Patient{ID: id, IsDeleted: true}, nil
			},
		}
		svc := newTestService(t, &mockRecordRepo{}, patients, &mockAuditRepo{})

		_, err := svc.Create(context.Background(), patientID, "doc@example.com", &model.CreateMedicalRecordRequest{
			Diagnosis: "Hypertension",
		})
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	})
}

func TestListForPatient(t *testing.T) {
	patientID := uuid.New()

	t.Run("requires existing patient", func(t *testing.T) {
		patients := &mockPatientRepo{
			getFn: func(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
				return nil, apperrors.NotFound("patient")
			},
		}
		svc := newTestService(t, &mockRecordRepo{}, patients, &mockAuditRepo{})

		_, err := svc.ListForPatient(context.Background(), patientID)
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	})

	t.Run("returns repository records", func(t *testing.T) {
		records := &mockRecordRepo{
			listFn: func(ctx context.Context, id uuid.UUID) ([]*model.MedicalRecord, error) {
				return []*model.MedicalRecord{{ID: uuid.New(), PatientID: id}}, nil
			},
		}
		svc := newTestService(t, records, activePatient(patientID), &mockAuditRepo{})

		got, err := svc.ListForPatient(context.Background(), patientID)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}
