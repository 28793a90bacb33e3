// file: internals/features/school/promotions/service/ledger_service.go
package service

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/school/promotions/model"
)

// LedgerService is the append-only history of transitions. No update, no
// delete: the unique (student, to-session) index carries the idempotence
// guarantee for the executor.
type LedgerService interface {
	Append(db *gorm.DB, ent *model.StudentTransitionModel) error
	Exists(db *gorm.DB, studentID, toSessionID uuid.UUID) (bool, error)
	ExistingStudents(db *gorm.DB, toSessionID uuid.UUID, studentIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	ListBySchool(db *gorm.DB, schoolID uuid.UUID, offset, limit int) ([]model.StudentTransitionModel, int64, error)
	ListByStudent(db *gorm.DB, studentID uuid.UUID) ([]model.StudentTransitionModel, error)
}

type ledgerSvc struct{}

func NewLedgerService() LedgerService {
	return &ledgerSvc{}
}

// Append writes one transition. 409 DUPLICATE when the (student, to-session)
// pair already exists; callers treat that as success since the intended
// state is already reached.
func (s *ledgerSvc) Append(db *gorm.DB, ent *model.StudentTransitionModel) error {
	if err := db.Create(ent).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fiber.NewError(fiber.StatusConflict, "transition already recorded for this student and session")
		}
		log.Printf("[Ledger] ERROR Append studentID=%s toSessionID=%s err=%v",
			ent.StudentTransitionStudentID, ent.StudentTransitionToSessionID, err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to append transition record")
	}
	return nil
}

func (s *ledgerSvc) Exists(db *gorm.DB, studentID, toSessionID uuid.UUID) (bool, error) {
	var cnt int64
	if err := db.Model(&model.StudentTransitionModel{}).
		Where("student_transition_student_id = ? AND student_transition_to_session_id = ?", studentID, toSessionID).
		Count(&cnt).Error; err != nil {
		return false, fiber.NewError(fiber.StatusInternalServerError, "failed to check transition record")
	}
	return cnt > 0, nil
}

// ExistingStudents resolves the already-transitioned subset of a batch in
// one query instead of per-student lookups.
func (s *ledgerSvc) ExistingStudents(db *gorm.DB, toSessionID uuid.UUID, studentIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(studentIDs))
	if len(studentIDs) == 0 {
		return out, nil
	}
	var found []uuid.UUID
	if err := db.Model(&model.StudentTransitionModel{}).
		Where("student_transition_to_session_id = ? AND student_transition_student_id IN ?", toSessionID, studentIDs).
		Pluck("student_transition_student_id", &found).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to check transition records")
	}
	for _, id := range found {
		out[id] = true
	}
	return out, nil
}

func (s *ledgerSvc) ListBySchool(db *gorm.DB, schoolID uuid.UUID, offset, limit int) ([]model.StudentTransitionModel, int64, error) {
	q := db.Model(&model.StudentTransitionModel{}).
		Where("student_transition_school_id = ?", schoolID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fiber.NewError(fiber.StatusInternalServerError, "failed to count transition records")
	}

	var list []model.StudentTransitionModel
	if err := q.
		Order("student_transition_created_at DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error; err != nil {
		return nil, 0, fiber.NewError(fiber.StatusInternalServerError, "failed to list transition records")
	}
	return list, total, nil
}

func (s *ledgerSvc) ListByStudent(db *gorm.DB, studentID uuid.UUID) ([]model.StudentTransitionModel, error) {
	var list []model.StudentTransitionModel
	if err := db.
		Where("student_transition_student_id = ?", studentID).
		Order("student_transition_created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to list transition records")
	}
	return list, nil
}
