// file: internals/features/school/academics/sessions/model/session_model.go
package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionModel struct {
	// ============ PK & Tenant ============
	SessionID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:session_id" json:"session_id"`
	SessionSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:session_school_id" json:"session_school_id"`

	// ============ Identity ============
	// Example year label: "2025-26"
	SessionYear      string    `gorm:"type:text;not null;column:session_year" json:"session_year"`
	SessionStartDate time.Time `gorm:"type:timestamptz;not null;column:session_start_date" json:"session_start_date"`
	SessionEndDate   time.Time `gorm:"type:timestamptz;not null;column:session_end_date" json:"session_end_date"`

	// At most one active session per school; the flag only moves through
	// the activate operation (single transactional swap).
	SessionIsActive bool `gorm:"not null;default:false;column:session_is_active" json:"session_is_active"`

	// Optimistic-concurrency counter, bumped on every activation swap.
	SessionVersion int `gorm:"type:integer;not null;default:1;column:session_version" json:"session_version"`

	// ============ Audit / Soft delete ============
	SessionCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:session_created_at" json:"session_created_at"`
	SessionUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:session_updated_at" json:"session_updated_at"`
	SessionDeletedAt gorm.DeletedAt `gorm:"column:session_deleted_at;index" json:"session_deleted_at,omitempty"`
}

func (SessionModel) TableName() string { return "sessions" }

// ============ Hooks: validation & light normalization ============

func (m *SessionModel) BeforeCreate(tx *gorm.DB) error {
	if m.SessionID == uuid.Nil {
		m.SessionID = uuid.New()
	}
	return nil
}

func (m *SessionModel) BeforeSave(tx *gorm.DB) error {
	// Mirror CHECK: end >= start
	if m.SessionEndDate.Before(m.SessionStartDate) {
		return errors.New("session_end_date must be >= session_start_date")
	}

	m.SessionYear = strings.TrimSpace(m.SessionYear)
	if m.SessionYear == "" {
		return errors.New("session_year must not be blank")
	}
	return nil
}
