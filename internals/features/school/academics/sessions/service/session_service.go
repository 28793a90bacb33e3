// file: internals/features/school/academics/sessions/service/session_service.go
package service

import (
	"errors"
	"log"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/school/academics/sessions/model"
)

// Interface so the promotion executor can be tested against a mock.
type SessionService interface {
	Create(db *gorm.DB, ent *model.SessionModel) error
	List(db *gorm.DB, schoolID uuid.UUID, year *string, active *bool) ([]model.SessionModel, error)
	GetByID(db *gorm.DB, schoolID, sessionID uuid.UUID) (model.SessionModel, error)
	GetActive(db *gorm.DB, schoolID uuid.UUID) (model.SessionModel, error)
	Activate(db *gorm.DB, schoolID, sessionID uuid.UUID) (model.SessionModel, error)
	Next(db *gorm.DB, schoolID, currentSessionID uuid.UUID) (model.SessionModel, error)
}

type sessionSvc struct{}

func NewSessionService() SessionService {
	return &sessionSvc{}
}

func (s *sessionSvc) Create(db *gorm.DB, ent *model.SessionModel) error {
	if err := db.Create(ent).Error; err != nil {
		log.Printf("[Sessions] ERROR Create schoolID=%s year=%q err=%v", ent.SessionSchoolID, ent.SessionYear, err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create session")
	}
	return nil
}

// List returns the school's sessions in temporal order: start date first,
// year label as the deterministic tiebreak.
func (s *sessionSvc) List(db *gorm.DB, schoolID uuid.UUID, year *string, active *bool) ([]model.SessionModel, error) {
	q := db.Model(&model.SessionModel{}).
		Where("session_school_id = ?", schoolID)
	if year != nil && *year != "" {
		q = q.Where("session_year = ?", *year)
	}
	if active != nil {
		q = q.Where("session_is_active = ?", *active)
	}

	var list []model.SessionModel
	if err := q.Find(&list).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to list sessions")
	}
	sortSessions(list)
	return list, nil
}

func (s *sessionSvc) GetByID(db *gorm.DB, schoolID, sessionID uuid.UUID) (model.SessionModel, error) {
	var ent model.SessionModel
	err := db.
		Where("session_school_id = ? AND session_id = ?", schoolID, sessionID).
		First(&ent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ent, fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		return ent, fiber.NewError(fiber.StatusInternalServerError, "failed to fetch session")
	}
	return ent, nil
}

func (s *sessionSvc) GetActive(db *gorm.DB, schoolID uuid.UUID) (model.SessionModel, error) {
	var ent model.SessionModel
	err := db.
		Where("session_school_id = ? AND session_is_active = ?", schoolID, true).
		First(&ent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ent, fiber.NewError(fiber.StatusNotFound, "no active session for this school")
		}
		return ent, fiber.NewError(fiber.StatusInternalServerError, "failed to fetch active session")
	}
	return ent, nil
}

// Activate swaps the active flag to the target session in one transaction:
// clear every other active row for the school, then set the target. The
// version counter moves on both sides of the swap so stale readers can tell.
// Re-activating the already-active session is a no-op success.
func (s *sessionSvc) Activate(db *gorm.DB, schoolID, sessionID uuid.UUID) (model.SessionModel, error) {
	var ent model.SessionModel
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("session_school_id = ? AND session_id = ?", schoolID, sessionID).
			First(&ent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "session not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch session")
		}
		if ent.SessionIsActive {
			return nil // idempotent
		}

		now := time.Now()
		if err := tx.Model(&model.SessionModel{}).
			Where("session_school_id = ? AND session_is_active = ? AND session_id <> ?", schoolID, true, sessionID).
			Updates(map[string]any{
				"session_is_active":  false,
				"session_version":    gorm.Expr("session_version + 1"),
				"session_updated_at": now,
			}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to deactivate previous session")
		}

		res := tx.Model(&model.SessionModel{}).
			Where("session_school_id = ? AND session_id = ?", schoolID, sessionID).
			Updates(map[string]any{
				"session_is_active":  true,
				"session_version":    gorm.Expr("session_version + 1"),
				"session_updated_at": now,
			})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to activate session")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		return tx.
			Where("session_id = ?", sessionID).
			First(&ent).Error
	})
	if err != nil {
		log.Printf("[Sessions] ERROR Activate schoolID=%s sessionID=%s err=%v", schoolID, sessionID, err)
		return model.SessionModel{}, err
	}
	log.Printf("[Sessions] OK Activate schoolID=%s sessionID=%s year=%q version=%d",
		schoolID, sessionID, ent.SessionYear, ent.SessionVersion)
	return ent, nil
}

// Next returns the session immediately following the given one in List
// order. 404 when the given session is the most recent (the operator has to
// create the next session first; it is never auto-created here).
func (s *sessionSvc) Next(db *gorm.DB, schoolID, currentSessionID uuid.UUID) (model.SessionModel, error) {
	list, err := s.List(db, schoolID, nil, nil)
	if err != nil {
		return model.SessionModel{}, err
	}
	for i, it := range list {
		if it.SessionID == currentSessionID {
			if i+1 < len(list) {
				return list[i+1], nil
			}
			return model.SessionModel{}, fiber.NewError(fiber.StatusNotFound, "no next session: create it first")
		}
	}
	return model.SessionModel{}, fiber.NewError(fiber.StatusNotFound, "session not found")
}

func sortSessions(list []model.SessionModel) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].SessionStartDate.Equal(list[j].SessionStartDate) {
			return list[i].SessionStartDate.Before(list[j].SessionStartDate)
		}
		return list[i].SessionYear < list[j].SessionYear
	})
}
