// file: internals/features/school/academics/sessions/dto/session_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/school/academics/sessions/model"
)

// =======================
// Request DTO
// =======================

type SessionCreateDTO struct {
	SessionYear      string    `json:"session_year"       validate:"required,min=4"`
	SessionStartDate time.Time `json:"session_start_date" validate:"required"`
	// gtefield keeps parity with the DB CHECK (end >= start)
	SessionEndDate time.Time `json:"session_end_date"   validate:"required,gtefield=SessionStartDate"`
}

type SessionUpdateDTO struct {
	SessionYear      *string    `json:"session_year,omitempty"       validate:"omitempty,min=4"`
	SessionStartDate *time.Time `json:"session_start_date,omitempty"`
	SessionEndDate   *time.Time `json:"session_end_date,omitempty"`
	// true routes the PATCH through the activate swap; false is rejected
	// (deactivation without a successor would leave no active session).
	SessionIsActive *bool `json:"session_is_active,omitempty"`
}

type SessionFilterDTO struct {
	Year   *string `query:"year"   validate:"omitempty,min=4"`
	Active *bool   `query:"active" validate:"omitempty"`
}

// =======================
// Response DTO
// =======================

type SessionResponseDTO struct {
	SessionID        uuid.UUID  `json:"session_id"`
	SessionSchoolID  uuid.UUID  `json:"session_school_id"`
	SessionYear      string     `json:"session_year"`
	SessionStartDate time.Time  `json:"session_start_date"`
	SessionEndDate   time.Time  `json:"session_end_date"`
	SessionIsActive  bool       `json:"session_is_active"`
	SessionVersion   int        `json:"session_version"`
	SessionCreatedAt time.Time  `json:"session_created_at"`
	SessionUpdatedAt time.Time  `json:"session_updated_at"`
	SessionDeletedAt *time.Time `json:"session_deleted_at,omitempty"`
}

// =======================
// Helpers
// =======================

func (p *SessionCreateDTO) Normalize() {
	p.SessionYear = strings.TrimSpace(p.SessionYear)
}

func (p *SessionCreateDTO) ToModel(schoolID uuid.UUID) model.SessionModel {
	return model.SessionModel{
		SessionSchoolID:  schoolID,
		SessionYear:      p.SessionYear,
		SessionStartDate: p.SessionStartDate,
		SessionEndDate:   p.SessionEndDate,
		// new sessions always start inactive; only Activate moves the flag
		SessionIsActive: false,
	}
}

func (u *SessionUpdateDTO) ApplyUpdates(ent *model.SessionModel) {
	if u.SessionYear != nil {
		ent.SessionYear = strings.TrimSpace(*u.SessionYear)
	}
	if u.SessionStartDate != nil {
		ent.SessionStartDate = *u.SessionStartDate
	}
	if u.SessionEndDate != nil {
		ent.SessionEndDate = *u.SessionEndDate
	}
}

// Mapper entity -> response
func FromModel(ent model.SessionModel) SessionResponseDTO {
	out := SessionResponseDTO{
		SessionID:        ent.SessionID,
		SessionSchoolID:  ent.SessionSchoolID,
		SessionYear:      ent.SessionYear,
		SessionStartDate: ent.SessionStartDate,
		SessionEndDate:   ent.SessionEndDate,
		SessionIsActive:  ent.SessionIsActive,
		SessionVersion:   ent.SessionVersion,
		SessionCreatedAt: ent.SessionCreatedAt,
		SessionUpdatedAt: ent.SessionUpdatedAt,
	}
	if ent.SessionDeletedAt.Valid {
		t := ent.SessionDeletedAt.Time
		out.SessionDeletedAt = &t
	}
	return out
}

func FromModels(list []model.SessionModel) []SessionResponseDTO {
	out := make([]SessionResponseDTO, 0, len(list))
	for _, it := range list {
		out = append(out, FromModel(it))
	}
	return out
}
