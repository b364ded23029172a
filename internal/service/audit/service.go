package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/patient-api/internal/model"
	"github.com/jwalitptl/patient-api/internal/repository"
	"github.com/jwalitptl/patient-api/pkg/logger"
	"github.com/jwalitptl/patient-api/pkg/metrics"
)

// Service writes and reads the audit trail. Writes are best-effort: a
// failed audit write must never fail the operation that triggered it.
type Service struct {
	repo    repository.AuditRepository
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewService(repo repository.AuditRepository, logger *logger.Logger, metrics *metrics.Metrics) *Service {
	return &Service{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
	}
}

// Record appends an audit entry for a mutating action. Failures are
// logged and counted, then dropped.
func (s *Service) Record(ctx context.Context, entityType string, entityID uuid.UUID, action, userEmail string, changes interface{}) {
	var raw json.RawMessage
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			s.metrics.AuditWriteFailed.Inc()
			s.logger.Warn(err, "failed to marshal audit changes")
			return
		}
		raw = data
	}

	entry := &model.AuditLog{
		ID:         uuid.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		UserEmail:  userEmail,
		Timestamp:  time.Now().UTC(),
		Changes:    raw,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.metrics.AuditWriteFailed.Inc()
		s.logger.WithFields(map[string]interface{}{
			"entity_type": entityType,
			"entity_id":   entityID.String(),
			"action":      action,
		}).Warn(err, "failed to write audit entry")
		return
	}

	s.metrics.AuditWrites.Inc()
}

// ListForEntity returns the trail for one entity, newest first.
func (s *Service) ListForEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*model.AuditLog, error) {
	return s.repo.ListForEntity(ctx, entityType, entityID)
}
