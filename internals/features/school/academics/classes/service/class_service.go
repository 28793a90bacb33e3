// file: internals/features/school/academics/classes/service/class_service.go
package service

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/school/academics/classes/model"
)

// ClassCatalog is read-only to the promotion engine; Create exists only so
// the ladder can be seeded by an operator.
type ClassCatalog interface {
	List(db *gorm.DB, schoolID uuid.UUID) ([]model.ClassModel, error)
	GetByID(db *gorm.DB, schoolID, classID uuid.UUID) (model.ClassModel, error)
	// Next returns the class at ordinal+1. top=true means classID is already
	// the highest rung: the returned class is the same one and the caller
	// has to treat the move as a graduation, not a re-assignment.
	Next(db *gorm.DB, schoolID, classID uuid.UUID) (next model.ClassModel, top bool, err error)
	Create(db *gorm.DB, ent *model.ClassModel) error
}

type classCatalog struct{}

func NewClassCatalog() ClassCatalog {
	return &classCatalog{}
}

func (s *classCatalog) List(db *gorm.DB, schoolID uuid.UUID) ([]model.ClassModel, error) {
	var list []model.ClassModel
	if err := db.
		Where("class_school_id = ?", schoolID).
		Order("class_ordinal ASC").
		Find(&list).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to list classes")
	}
	return list, nil
}

func (s *classCatalog) GetByID(db *gorm.DB, schoolID, classID uuid.UUID) (model.ClassModel, error) {
	var ent model.ClassModel
	err := db.
		Where("class_school_id = ? AND class_id = ?", schoolID, classID).
		First(&ent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ent, fiber.NewError(fiber.StatusNotFound, "class not found")
		}
		return ent, fiber.NewError(fiber.StatusInternalServerError, "failed to fetch class")
	}
	return ent, nil
}

func (s *classCatalog) Next(db *gorm.DB, schoolID, classID uuid.UUID) (model.ClassModel, bool, error) {
	cur, err := s.GetByID(db, schoolID, classID)
	if err != nil {
		return model.ClassModel{}, false, err
	}

	var next model.ClassModel
	err = db.
		Where("class_school_id = ? AND class_ordinal = ?", schoolID, cur.ClassOrdinal+1).
		First(&next).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// top of the ladder; never wrap back to ordinal 0
			return cur, true, nil
		}
		return model.ClassModel{}, false, fiber.NewError(fiber.StatusInternalServerError, "failed to fetch next class")
	}
	return next, false, nil
}

func (s *classCatalog) Create(db *gorm.DB, ent *model.ClassModel) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&model.ClassModel{}).
			Where("class_school_id = ?", ent.ClassSchoolID).
			Count(&cnt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to check ladder size")
		}
		// ordinals stay contiguous: the only free slot is the next one up
		if int64(ent.ClassOrdinal) != cnt {
			return fiber.NewError(fiber.StatusBadRequest, "class_ordinal must extend the ladder contiguously")
		}
		if err := tx.Create(ent).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "ordinal already taken for this school")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to create class")
		}
		return nil
	})
	if err != nil {
		log.Printf("[ClassCatalog] ERROR Create schoolID=%s name=%q ordinal=%d err=%v",
			ent.ClassSchoolID, ent.ClassName, ent.ClassOrdinal, err)
	}
	return err
}
