// file: internals/features/school/academics/classes/model/class_model.go
package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassModel is one rung of the school's promotion ladder. The ordinal is a
// persisted rank (LKG=0 ... XII=13), unique and contiguous per school, so
// promotion order never depends on list position.
type ClassModel struct {
	// ============ PK & Tenant ============
	ClassID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:class_id" json:"class_id"`
	ClassSchoolID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_class_school_ordinal;column:class_school_id" json:"class_school_id"`

	// ============ Identity ============
	ClassName    string `gorm:"type:varchar(120);not null;column:class_name" json:"class_name"`
	ClassOrdinal int16  `gorm:"type:smallint;not null;uniqueIndex:uq_class_school_ordinal;column:class_ordinal" json:"class_ordinal"`

	// ============ Audit / Soft delete ============
	ClassCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:class_created_at" json:"class_created_at"`
	ClassUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:class_updated_at" json:"class_updated_at"`
	ClassDeletedAt gorm.DeletedAt `gorm:"column:class_deleted_at;index" json:"class_deleted_at,omitempty"`
}

func (ClassModel) TableName() string { return "classes" }

func (m *ClassModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassID == uuid.Nil {
		m.ClassID = uuid.New()
	}
	return nil
}

func (m *ClassModel) BeforeSave(tx *gorm.DB) error {
	m.ClassName = strings.TrimSpace(m.ClassName)
	if m.ClassName == "" {
		return errors.New("class_name must not be blank")
	}
	if m.ClassOrdinal < 0 {
		return errors.New("class_ordinal must be >= 0")
	}
	return nil
}
