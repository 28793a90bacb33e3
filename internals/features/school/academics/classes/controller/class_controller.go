// file: internals/features/school/academics/classes/controller/class_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "schoolku_backend/internals/features/school/academics/classes/dto"
	service "schoolku_backend/internals/features/school/academics/classes/service"
	helper "schoolku_backend/internals/helpers"
)

/* ============================================
   Controller
============================================ */

type ClassController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Catalog   service.ClassCatalog
}

func NewClassController(db *gorm.DB, v *validator.Validate) *ClassController {
	if v == nil {
		v = validator.New()
	}
	return &ClassController{DB: db, Validator: v, Catalog: service.NewClassCatalog()}
}

func httpErr(c *fiber.Ctx, code int, msg string) error {
	return helper.JsonError(c, code, msg)
}

/* ============================================
   LIST
   GET /api/a/classes
============================================ */

func (ctl *ClassController) List(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	list, err := ctl.Catalog.List(ctl.DB.WithContext(c.UserContext()), schoolID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "classes fetched", dto.FromModels(list))
}

/* ============================================
   NEXT
   GET /api/a/classes/:id/next
============================================ */

func (ctl *ClassController) GetNext(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpErr(c, fiber.StatusBadRequest, "invalid id")
	}
	schoolID, err := helper.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	next, top, err := ctl.Catalog.Next(ctl.DB.WithContext(c.UserContext()), schoolID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "next class", dto.NextClassResponseDTO{
		Class: dto.FromModel(next),
		IsTop: top,
	})
}

/* ============================================
   CREATE (catalog seeding)
   POST /api/a/classes
============================================ */

func (ctl *ClassController) Create(c *fiber.Ctx) error {
	var p dto.ClassCreateDTO
	if err := c.BodyParser(&p); err != nil {
		return httpErr(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := ctl.Validator.Struct(&p); err != nil {
		return httpErr(c, fiber.StatusBadRequest, err.Error())
	}
	p.Normalize()

	schoolID, err := helper.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	ent := p.ToModel(schoolID)
	if err := ctl.Catalog.Create(ctl.DB.WithContext(c.UserContext()), &ent); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "class created", dto.FromModel(ent))
}
