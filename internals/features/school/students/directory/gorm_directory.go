// file: internals/features/school/students/directory/gorm_directory.go
package directory

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/school/students/model"
)

// GormDirectory serves deployments where the directory shares the engine's
// database (the usual monolith setup). Each batch is one transaction.
type GormDirectory struct {
	DB *gorm.DB
}

func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{DB: db}
}

func (d *GormDirectory) ListActive(ctx context.Context, schoolID uuid.UUID, classID *uuid.UUID) ([]StudentRecord, error) {
	q := d.DB.WithContext(ctx).Model(&model.StudentModel{}).
		Where("student_school_id = ? AND student_is_active = ?", schoolID, true)
	if classID != nil {
		q = q.Where("student_class_id = ?", *classID)
	}

	var list []model.StudentModel
	if err := q.Order("student_name ASC").Find(&list).Error; err != nil {
		return nil, wrapCtx(ctx, err, "failed to list students")
	}
	out := make([]StudentRecord, 0, len(list))
	for _, it := range list {
		out = append(out, toRecord(it))
	}
	return out, nil
}

func (d *GormDirectory) Get(ctx context.Context, schoolID, studentID uuid.UUID) (StudentRecord, error) {
	var ent model.StudentModel
	err := d.DB.WithContext(ctx).
		Where("student_school_id = ? AND student_id = ?", schoolID, studentID).
		First(&ent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StudentRecord{}, fiber.NewError(fiber.StatusNotFound, "student not found")
		}
		return StudentRecord{}, wrapCtx(ctx, err, "failed to fetch student")
	}
	return toRecord(ent), nil
}

func (d *GormDirectory) ApplyPromotions(ctx context.Context, schoolID uuid.UUID, batch []ClassChange) error {
	if len(batch) == 0 {
		return nil
	}
	err := d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for _, ch := range batch {
			updates := map[string]any{
				"student_class_id":   ch.ToClassID,
				"student_updated_at": now,
			}
			if ch.Section != "" {
				updates["student_section"] = ch.Section
			}
			if ch.Graduated {
				// leaving the top of the ladder: enrollment closes
				updates["student_is_active"] = false
				updates["student_is_transfer_cert_issued"] = true
			}
			res := tx.Model(&model.StudentModel{}).
				Where("student_school_id = ? AND student_id = ? AND student_is_active = ?", schoolID, ch.StudentID, true).
				Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fiber.NewError(fiber.StatusNotFound, "student not found or inactive: "+ch.StudentID.String())
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[Directory] ERROR ApplyPromotions schoolID=%s n=%d err=%v", schoolID, len(batch), err)
		return wrapCtx(ctx, err, "promotion batch failed")
	}
	return nil
}

func (d *GormDirectory) ApplyDrops(ctx context.Context, schoolID uuid.UUID, batch []Drop) error {
	if len(batch) == 0 {
		return nil
	}
	err := d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for _, dr := range batch {
			res := tx.Model(&model.StudentModel{}).
				Where("student_school_id = ? AND student_id = ? AND student_is_active = ?", schoolID, dr.StudentID, true).
				Updates(map[string]any{
					"student_is_active":  false,
					"student_updated_at": now,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fiber.NewError(fiber.StatusNotFound, "student not found or inactive: "+dr.StudentID.String())
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[Directory] ERROR ApplyDrops schoolID=%s n=%d err=%v", schoolID, len(batch), err)
		return wrapCtx(ctx, err, "drop batch failed")
	}
	return nil
}

func toRecord(ent model.StudentModel) StudentRecord {
	return StudentRecord{
		StudentID:            ent.StudentID,
		SchoolID:             ent.StudentSchoolID,
		Name:                 ent.StudentName,
		ClassID:              ent.StudentClassID,
		Section:              ent.StudentSection,
		IsActive:             ent.StudentIsActive,
		IsTransferCertIssued: ent.StudentIsTransferCertIssued,
	}
}

// wrapCtx keeps fiber errors as-is and turns deadline hits into the unknown
// outcome; anything else becomes a 500 with a stable message.
func wrapCtx(ctx context.Context, err error, msg string) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrUnknownOutcome
	}
	return fiber.NewError(fiber.StatusInternalServerError, msg)
}
