package model

import (
	"time"

	"github.com/google/uuid"
)

// Patient validation bounds
const (
	MinPatientAge    = 0
	MaxPatientAge    = 150
	MinNameLength    = 2
	MinContactLength = 9
	DefaultPage      = 1
	DefaultPerPage   = 10
	MaxPerPage       = 100
)

// Patient represents a patient record. Soft-deleted patients keep their row
// and medical records; deleted_at and deleted_by are set together.
type Patient struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Age       int        `json:"age" db:"age"`
	Contact   string     `json:"contact" db:"contact"`
	IsDeleted bool       `json:"is_deleted" db:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	DeletedBy *string    `json:"deleted_by,omitempty" db:"deleted_by"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	CreatedBy string     `json:"created_by" db:"created_by"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	UpdatedBy string     `json:"updated_by" db:"updated_by"`
}

// CreatePatientRequest carries patient creation parameters
type CreatePatientRequest struct {
	Name    string `json:"name"`
	Age     *int   `json:"age"`
	Contact string `json:"contact"`
}

// UpdatePatientRequest carries a partial patient update; only fields
// present are validated and applied.
type UpdatePatientRequest struct {
	Name    *string `json:"name"`
	Age     *int    `json:"age"`
	Contact *string `json:"contact"`
}

// PatientFilters represents patient list parameters
type PatientFilters struct {
	Page           int    `form:"page"`
	PerPage        int    `form:"per_page"`
	Search         string `form:"search"`
	IncludeDeleted bool   `form:"include_deleted"`
}

// Normalize applies list defaults and clamps per_page to the maximum.
func (f *PatientFilters) Normalize() {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.PerPage < 1 {
		f.PerPage = DefaultPerPage
	}
	if f.PerPage > MaxPerPage {
		f.PerPage = MaxPerPage
	}
}

// PaginationMeta is derived from the query result, never stored.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// NewPaginationMeta derives pagination metadata for a page of results.
func NewPaginationMeta(page, perPage int, total int64) PaginationMeta {
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return PaginationMeta{
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		TotalItems: total,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && total > 0,
	}
}

// PatientList bundles a page of patients with its pagination metadata.
type PatientList struct {
	Patients   []*Patient     `json:"patients"`
	Pagination PaginationMeta `json:"pagination"`
}
