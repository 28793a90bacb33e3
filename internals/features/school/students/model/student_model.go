// file: internals/features/school/students/model/student_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentModel is the slice of the student record this engine is allowed to
// touch: current class, section, active flag. Everything else about a
// student is owned by the directory service.
type StudentModel struct {
	// ============ PK & Tenant ============
	StudentID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:student_id" json:"student_id"`
	StudentSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:student_school_id" json:"student_school_id"`

	// ============ Enrollment ============
	StudentName    string    `gorm:"type:varchar(160);not null;column:student_name" json:"student_name"`
	StudentClassID uuid.UUID `gorm:"type:uuid;not null;index;column:student_class_id" json:"student_class_id"`
	StudentSection string    `gorm:"type:varchar(20);column:student_section" json:"student_section"`

	StudentIsActive             bool `gorm:"not null;default:true;column:student_is_active" json:"student_is_active"`
	StudentIsTransferCertIssued bool `gorm:"not null;default:false;column:student_is_transfer_cert_issued" json:"student_is_transfer_cert_issued"`

	// ============ Audit / Soft delete ============
	StudentCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:student_created_at" json:"student_created_at"`
	StudentUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:student_updated_at" json:"student_updated_at"`
	StudentDeletedAt gorm.DeletedAt `gorm:"column:student_deleted_at;index" json:"student_deleted_at,omitempty"`
}

func (StudentModel) TableName() string { return "students" }

func (m *StudentModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentID == uuid.Nil {
		m.StudentID = uuid.New()
	}
	return nil
}
