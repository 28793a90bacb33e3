// file: internals/features/school/promotions/dto/promotion_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/school/promotions/model"
)

// =======================
// Request DTO
// =======================

type PromoteStudentDTO struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Section   string    `json:"section,omitempty"    validate:"omitempty,max=20"`
	Remarks   string    `json:"remarks,omitempty"    validate:"omitempty,max=500"`
}

type PromoteBatchDTO struct {
	FromSessionID uuid.UUID           `json:"from_session_id" validate:"required"`
	ToSessionID   uuid.UUID           `json:"to_session_id"   validate:"required"`
	Promotions    []PromoteStudentDTO `json:"promotions"      validate:"required,min=1,max=500,dive"`
}

type DropStudentDTO struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Remarks   string    `json:"remarks,omitempty" validate:"omitempty,max=500"`
}

type DropBatchDTO struct {
	FromSessionID uuid.UUID        `json:"from_session_id" validate:"required"`
	ToSessionID   uuid.UUID        `json:"to_session_id"   validate:"required"`
	Drops         []DropStudentDTO `json:"drops"           validate:"required,min=1,max=500,dive"`
}

// =======================
// Response DTO
// =======================

// Per-student outcome of one batch run.
//   - outcome "ok":      written this run
//   - outcome "already": idempotent replay, the transition existed
//   - outcome "failed":  this student's batch write failed; retry with the
//     failed subset is safe
//   - outcome "unknown": upstream timed out mid-write; re-query first
type ItemResultDTO struct {
	StudentID   uuid.UUID `json:"student_id"`
	Outcome     string    `json:"outcome"`
	Status      string    `json:"status,omitempty"` // promoted | graduated | dropped_out
	FromClassID uuid.UUID `json:"from_class_id,omitempty"`
	ToClassID   uuid.UUID `json:"to_class_id,omitempty"`
	Error       string    `json:"error,omitempty"`
}

type BatchResultDTO struct {
	Results   []ItemResultDTO `json:"results"`
	Succeeded int             `json:"succeeded"`
	Already   int             `json:"already"`
	Failed    int             `json:"failed"`
	Unknown   int             `json:"unknown"`
}

func (r BatchResultDTO) FullySucceeded() bool {
	return r.Failed == 0 && r.Unknown == 0
}

type TransitionResponseDTO struct {
	StudentTransitionID            uuid.UUID      `json:"student_transition_id"`
	StudentTransitionSchoolID      uuid.UUID      `json:"student_transition_school_id"`
	StudentTransitionStudentID     uuid.UUID      `json:"student_transition_student_id"`
	StudentTransitionFromSessionID uuid.UUID      `json:"student_transition_from_session_id"`
	StudentTransitionToSessionID   uuid.UUID      `json:"student_transition_to_session_id"`
	StudentTransitionFromClassID   uuid.UUID      `json:"student_transition_from_class_id"`
	StudentTransitionToClassID     uuid.UUID      `json:"student_transition_to_class_id"`
	StudentTransitionStatus        string         `json:"student_transition_status"`
	StudentTransitionRemarks       *string        `json:"student_transition_remarks,omitempty"`
	StudentTransitionMeta          map[string]any `json:"student_transition_meta,omitempty"`
	StudentTransitionCreatedAt     time.Time      `json:"student_transition_created_at"`
}

// =======================
// Mappers
// =======================

func FromModel(ent model.StudentTransitionModel) TransitionResponseDTO {
	return TransitionResponseDTO{
		StudentTransitionID:            ent.StudentTransitionID,
		StudentTransitionSchoolID:      ent.StudentTransitionSchoolID,
		StudentTransitionStudentID:     ent.StudentTransitionStudentID,
		StudentTransitionFromSessionID: ent.StudentTransitionFromSessionID,
		StudentTransitionToSessionID:   ent.StudentTransitionToSessionID,
		StudentTransitionFromClassID:   ent.StudentTransitionFromClassID,
		StudentTransitionToClassID:     ent.StudentTransitionToClassID,
		StudentTransitionStatus:        ent.StudentTransitionStatus,
		StudentTransitionRemarks:       ent.StudentTransitionRemarks,
		StudentTransitionMeta:          ent.StudentTransitionMeta,
		StudentTransitionCreatedAt:     ent.StudentTransitionCreatedAt,
	}
}

func FromModels(list []model.StudentTransitionModel) []TransitionResponseDTO {
	out := make([]TransitionResponseDTO, 0, len(list))
	for _, it := range list {
		out = append(out, FromModel(it))
	}
	return out
}
