// file: internals/features/school/promotions/model/student_transition_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* =========================
   Constants
========================= */

const (
	TransitionStatusPromoted  = "promoted"
	TransitionStatusGraduated = "graduated"
	TransitionStatusDropOut   = "dropped_out"
)

/* =========================
   Model
========================= */

// StudentTransitionModel is one append-only ledger entry: a student moved
// (or declined to move) between two sessions. Rows are never updated or
// deleted; the unique (student, to-session) pair is the idempotence key for
// the whole promotion pipeline.
type StudentTransitionModel struct {
	// PK & Tenant
	StudentTransitionID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:student_transition_id" json:"student_transition_id"`
	StudentTransitionSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:student_transition_school_id" json:"student_transition_school_id"`

	// Who moved
	StudentTransitionStudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_student_transition_target;column:student_transition_student_id" json:"student_transition_student_id"`

	// From / to session
	StudentTransitionFromSessionID uuid.UUID `gorm:"type:uuid;not null;column:student_transition_from_session_id" json:"student_transition_from_session_id"`
	StudentTransitionToSessionID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_student_transition_target;column:student_transition_to_session_id" json:"student_transition_to_session_id"`

	// From / to class (same class for drop-outs and graduations)
	StudentTransitionFromClassID uuid.UUID `gorm:"type:uuid;not null;column:student_transition_from_class_id" json:"student_transition_from_class_id"`
	StudentTransitionToClassID   uuid.UUID `gorm:"type:uuid;not null;column:student_transition_to_class_id" json:"student_transition_to_class_id"`

	// promoted | graduated | dropped_out
	StudentTransitionStatus string `gorm:"type:text;not null;column:student_transition_status" json:"student_transition_status"`

	StudentTransitionRemarks *string `gorm:"type:text;column:student_transition_remarks" json:"student_transition_remarks,omitempty"`

	// flexible extras (section, operator id, ...)
	StudentTransitionMeta datatypes.JSONMap `gorm:"type:jsonb;column:student_transition_meta" json:"student_transition_meta,omitempty"`

	StudentTransitionCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:student_transition_created_at" json:"student_transition_created_at"`
}

func (StudentTransitionModel) TableName() string { return "student_transitions" }

func (m *StudentTransitionModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentTransitionID == uuid.Nil {
		m.StudentTransitionID = uuid.New()
	}
	return nil
}
