// file: internals/features/school/academics/classes/dto/class_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/school/academics/classes/model"
)

// =======================
// Request DTO
// =======================

type ClassCreateDTO struct {
	ClassName    string `json:"class_name"    validate:"required,min=1,max=120"`
	ClassOrdinal *int16 `json:"class_ordinal" validate:"required,gte=0"`
}

// =======================
// Response DTO
// =======================

type ClassResponseDTO struct {
	ClassID        uuid.UUID `json:"class_id"`
	ClassSchoolID  uuid.UUID `json:"class_school_id"`
	ClassName      string    `json:"class_name"`
	ClassOrdinal   int16     `json:"class_ordinal"`
	ClassCreatedAt time.Time `json:"class_created_at"`
	ClassUpdatedAt time.Time `json:"class_updated_at"`
}

// NextClassResponseDTO flags the top of the ladder explicitly: promoting out
// of the highest ordinal is a graduation, never a silent wrap to the bottom.
type NextClassResponseDTO struct {
	Class ClassResponseDTO `json:"class"`
	IsTop bool             `json:"is_top"`
}

// =======================
// Helpers
// =======================

func (p *ClassCreateDTO) Normalize() {
	p.ClassName = strings.TrimSpace(p.ClassName)
}

func (p *ClassCreateDTO) ToModel(schoolID uuid.UUID) model.ClassModel {
	return model.ClassModel{
		ClassSchoolID: schoolID,
		ClassName:     p.ClassName,
		ClassOrdinal:  *p.ClassOrdinal,
	}
}

func FromModel(ent model.ClassModel) ClassResponseDTO {
	return ClassResponseDTO{
		ClassID:        ent.ClassID,
		ClassSchoolID:  ent.ClassSchoolID,
		ClassName:      ent.ClassName,
		ClassOrdinal:   ent.ClassOrdinal,
		ClassCreatedAt: ent.ClassCreatedAt,
		ClassUpdatedAt: ent.ClassUpdatedAt,
	}
}

func FromModels(list []model.ClassModel) []ClassResponseDTO {
	out := make([]ClassResponseDTO, 0, len(list))
	for _, it := range list {
		out = append(out, FromModel(it))
	}
	return out
}
