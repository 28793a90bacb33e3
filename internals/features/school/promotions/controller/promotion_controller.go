// file: internals/features/school/promotions/controller/promotion_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "schoolku_backend/internals/features/school/promotions/dto"
	service "schoolku_backend/internals/features/school/promotions/service"
	directory "schoolku_backend/internals/features/school/students/directory"
	helper "schoolku_backend/internals/helpers"
)

/* ============================================
   Controller
============================================ */

type PromotionController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Executor  *service.Executor
}

func NewPromotionController(db *gorm.DB, v *validator.Validate, dir directory.Directory) *PromotionController {
	if v == nil {
		v = validator.New()
	}
	return &PromotionController{DB: db, Validator: v, Executor: service.NewExecutor(dir)}
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
   PROMOTE BATCH
   POST /api/a/students/promote
============================================ */

func (ctl *PromotionController) Promote(c *fiber.Ctx) error {
	var p dto.PromoteBatchDTO
	if err := bindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.FromFiberError(c, err)
	}
	schoolID, err := helper.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	items := make([]service.BatchItem, 0, len(p.Promotions))
	for _, it := range p.Promotions {
		items = append(items, service.BatchItem{
			StudentID: it.StudentID,
			Decision:  service.DecisionPromoted,
			Section:   it.Section,
			Remarks:   it.Remarks,
		})
	}

	result, err := ctl.Executor.Execute(
		c.UserContext(),
		ctl.DB.WithContext(c.UserContext()),
		schoolID, p.FromSessionID, p.ToSessionID, items,
	)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if !result.FullySucceeded() {
		return helper.JsonPartial(c, "promotion batch partially applied", result)
	}
	return helper.JsonOK(c, "promotion batch applied", result)
}

/* ============================================
   DROP BATCH
   POST /api/a/students/drop
============================================ */

func (ctl *PromotionController) Drop(c *fiber.Ctx) error {
	var p dto.DropBatchDTO
	if err := bindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.FromFiberError(c, err)
	}
	schoolID, err := helper.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	items := make([]service.BatchItem, 0, len(p.Drops))
	for _, it := range p.Drops {
		items = append(items, service.BatchItem{
			StudentID: it.StudentID,
			Decision:  service.DecisionDropOut,
			Remarks:   it.Remarks,
		})
	}

	result, err := ctl.Executor.Execute(
		c.UserContext(),
		ctl.DB.WithContext(c.UserContext()),
		schoolID, p.FromSessionID, p.ToSessionID, items,
	)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if !result.FullySucceeded() {
		return helper.JsonPartial(c, "drop batch partially applied", result)
	}
	return helper.JsonOK(c, "drop batch applied", result)
}
