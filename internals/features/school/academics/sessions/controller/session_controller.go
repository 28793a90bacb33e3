// file: internals/features/school/academics/sessions/controller/session_controller.go
package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "schoolku_backend/internals/features/school/academics/sessions/dto"
	model "schoolku_backend/internals/features/school/academics/sessions/model"
	service "schoolku_backend/internals/features/school/academics/sessions/service"
	helper "schoolku_backend/internals/helpers"
)

/* ============================================
   Controller
============================================ */

type SessionController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   service.SessionService
}

func NewSessionController(db *gorm.DB, v *validator.Validate) *SessionController {
	if v == nil {
		v = validator.New()
	}
	return &SessionController{DB: db, Validator: v, Service: service.NewSessionService()}
}

/* ============================================
   RESP/ERR helpers
============================================ */

func httpErr(c *fiber.Ctx, code int, msg string) error {
	return helper.JsonError(c, code, msg)
}

func bindAndValidate[T any](c *fiber.Ctx, v *validator.Validate, dst *T) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if v != nil {
		if err := v.Struct(dst); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}
	return nil
}

/* ============================================
   CREATE
   POST /api/a/sessions
============================================ */

func (ctl *SessionController) Create(c *fiber.Ctx) error {
	var p dto.SessionCreateDTO
	if err := bindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.FromFiberError(c, err)
	}
	p.Normalize()

	if p.SessionEndDate.Before(p.SessionStartDate) {
		return httpErr(c, fiber.StatusBadRequest, "end date must be >= start date")
	}

	schoolID, err := helper.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	// One year label per school
	var cnt int64
	if err := ctl.DB.WithContext(c.UserContext()).Model(&model.SessionModel{}).
		Where("session_school_id = ? AND session_year = ?", schoolID, p.SessionYear).
		Count(&cnt).Error; err != nil {
		return httpErr(c, fiber.StatusInternalServerError, "failed to check year label")
	}
	if cnt > 0 {
		return httpErr(c, fiber.StatusConflict, "a session with this year label already exists")
	}

	ent := p.ToModel(schoolID)
	if err := ctl.Service.Create(ctl.DB.WithContext(c.UserContext()), &ent); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "session created", dto.FromModel(ent))
}

/* ============================================
   LIST
   GET /api/a/sessions
============================================ */

func (ctl *SessionController) List(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var q dto.SessionFilterDTO
	if err := c.QueryParser(&q); err != nil {
		return httpErr(c, fiber.StatusBadRequest, "invalid query")
	}
	if err := ctl.Validator.Struct(&q); err != nil {
		return httpErr(c, fiber.StatusBadRequest, err.Error())
	}

	list, err := ctl.Service.List(ctl.DB.WithContext(c.UserContext()), schoolID, q.Year, q.Active)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	paging := helper.ResolvePaging(c, 20, 200)
	total := int64(len(list))
	lo := paging.Offset
	if lo > len(list) {
		lo = len(list)
	}
	hi := lo + paging.Limit
	if hi > len(list) {
		hi = len(list)
	}
	page := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	page.Count = hi - lo
	return helper.JsonList(c, "sessions fetched", dto.FromModels(list[lo:hi]), page)
}

/* ============================================
   ACTIVE
   GET /api/a/sessions/active
============================================ */

func (ctl *SessionController) GetActive(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ent, err := ctl.Service.GetActive(ctl.DB.WithContext(c.UserContext()), schoolID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "active session", dto.FromModel(ent))
}

/* ============================================
   NEXT
   GET /api/a/sessions/:id/next
============================================ */

func (ctl *SessionController) GetNext(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpErr(c, fiber.StatusBadRequest, "invalid id")
	}
	schoolID, err := helper.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ent, err := ctl.Service.Next(ctl.DB.WithContext(c.UserContext()), schoolID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "next session", dto.FromModel(ent))
}

/* ============================================
   PATCH
   PATCH /api/a/sessions/:id
   {"session_is_active":true} routes through the activate swap.
============================================ */

func (ctl *SessionController) Patch(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpErr(c, fiber.StatusBadRequest, "invalid id")
	}
	schoolID, err := helper.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var p dto.SessionUpdateDTO
	if err := bindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.FromFiberError(c, err)
	}

	if p.SessionIsActive != nil {
		if !*p.SessionIsActive {
			return httpErr(c, fiber.StatusBadRequest,
				"cannot deactivate directly: activate a successor session instead")
		}
		ent, err := ctl.Service.Activate(ctl.DB.WithContext(c.UserContext()), schoolID, id)
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		return helper.JsonUpdated(c, "session activated", dto.FromModel(ent))
	}

	ent, err := ctl.Service.GetByID(ctl.DB.WithContext(c.UserContext()), schoolID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	// date validation when changed
	if p.SessionStartDate != nil || p.SessionEndDate != nil {
		start := ent.SessionStartDate
		end := ent.SessionEndDate
		if p.SessionStartDate != nil {
			start = *p.SessionStartDate
		}
		if p.SessionEndDate != nil {
			end = *p.SessionEndDate
		}
		if end.Before(start) {
			return httpErr(c, fiber.StatusBadRequest, "end date must be >= start date")
		}
	}

	p.ApplyUpdates(&ent)
	ent.SessionUpdatedAt = time.Now()
	if err := ctl.DB.WithContext(c.UserContext()).Save(&ent).Error; err != nil {
		return httpErr(c, fiber.StatusInternalServerError, "failed to update session")
	}
	return helper.JsonUpdated(c, "session updated", dto.FromModel(ent))
}

/* ============================================
   DELETE (soft) + RESTORE
   Sessions are never hard-deleted.
============================================ */

func (ctl *SessionController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpErr(c, fiber.StatusBadRequest, "invalid id")
	}
	schoolID, err := helper.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	ent, err := ctl.Service.GetByID(ctl.DB.WithContext(c.UserContext()), schoolID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if ent.SessionIsActive {
		return httpErr(c, fiber.StatusBadRequest, "cannot delete the active session")
	}
	if err := ctl.DB.WithContext(c.UserContext()).Delete(&ent).Error; err != nil {
		return httpErr(c, fiber.StatusInternalServerError, "failed to delete session")
	}
	return helper.JsonDeleted(c, "session deleted", fiber.Map{"session_id": id})
}

func (ctl *SessionController) Restore(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpErr(c, fiber.StatusBadRequest, "invalid id")
	}
	schoolID, err := helper.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var ent model.SessionModel
	if err := ctl.DB.WithContext(c.UserContext()).Unscoped().
		Where("session_school_id = ? AND session_id = ?", schoolID, id).
		First(&ent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httpErr(c, fiber.StatusNotFound, "session not found")
		}
		return httpErr(c, fiber.StatusInternalServerError, "failed to fetch session")
	}
	if !ent.SessionDeletedAt.Valid {
		return helper.JsonOK(c, "ok", dto.FromModel(ent))
	}

	if err := ctl.DB.WithContext(c.UserContext()).Unscoped().
		Model(&ent).
		Update("session_deleted_at", nil).Error; err != nil {
		return httpErr(c, fiber.StatusInternalServerError, "failed to restore session")
	}
	ent.SessionDeletedAt = gorm.DeletedAt{}
	return helper.JsonUpdated(c, "session restored", dto.FromModel(ent))
}
