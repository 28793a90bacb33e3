// file: internals/features/school/students/controller/student_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	directory "schoolku_backend/internals/features/school/students/directory"
	helper "schoolku_backend/internals/helpers"
)

/* ============================================
   Controller (roster view for the operator)
============================================ */

type StudentController struct {
	Directory directory.Directory
}

func NewStudentController(dir directory.Directory) *StudentController {
	return &StudentController{Directory: dir}
}

/* ============================================
   LIST (roster)
   GET /api/a/students?class_id=
============================================ */

func (ctl *StudentController) List(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var classID *uuid.UUID
	if raw := c.Query("class_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid class_id")
		}
		classID = &id
	}

	list, err := ctl.Directory.ListActive(c.UserContext(), schoolID, classID)
	if err != nil {
		if err == directory.ErrUnknownOutcome {
			return helper.JsonError(c, fiber.StatusGatewayTimeout, "student directory timed out")
		}
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "students fetched", list)
}
