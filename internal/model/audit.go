package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditLog is an append-only record of a mutating action against an entity.
type AuditLog struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	EntityType string          `json:"entity_type" db:"entity_type"`
	EntityID   uuid.UUID       `json:"entity_id" db:"entity_id"`
	Action     string          `json:"action" db:"action"`
	UserEmail  string          `json:"user_email" db:"user_email"`
	Timestamp  time.Time       `json:"timestamp" db:"timestamp"`
	Changes    json.RawMessage `json:"changes,omitempty" db:"changes"`
}

const (
	// Action types
	AuditActionCreate  = "CREATE"
	AuditActionUpdate  = "UPDATE"
	AuditActionDelete  = "DELETE"
	AuditActionRestore = "RESTORE"

	// Entity types
	AuditEntityPatient       = "patient"
	AuditEntityMedicalRecord = "medical_record"
)

// FieldChange records the before/after values of a single field.
type FieldChange struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}
