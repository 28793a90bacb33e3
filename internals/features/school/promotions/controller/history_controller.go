// file: internals/features/school/promotions/controller/history_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "schoolku_backend/internals/features/school/promotions/dto"
	service "schoolku_backend/internals/features/school/promotions/service"
	helper "schoolku_backend/internals/helpers"
)

/* ============================================
   Controller (ledger audit views)
============================================ */

type HistoryController struct {
	DB     *gorm.DB
	Ledger service.LedgerService
}

func NewHistoryController(db *gorm.DB) *HistoryController {
	return &HistoryController{DB: db, Ledger: service.NewLedgerService()}
}

/* ============================================
   BY SCHOOL
   GET /api/a/student-sessions/by-school/:school_id
   Name filtering stays client-side; this is the raw audit feed.
============================================ */

func (ctl *HistoryController) ListBySchool(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	paging := helper.ResolvePaging(c, 50, 500)
	list, total, err := ctl.Ledger.ListBySchool(
		ctl.DB.WithContext(c.UserContext()), schoolID, paging.Offset, paging.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	page := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	page.Count = len(list)
	return helper.JsonList(c, "transition records fetched", dto.FromModels(list), page)
}

/* ============================================
   BY STUDENT
   GET /api/a/student-sessions/by-student/:student_id
============================================ */

func (ctl *HistoryController) ListByStudent(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("student_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid student id")
	}

	list, err := ctl.Ledger.ListByStudent(ctl.DB.WithContext(c.UserContext()), studentID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "transition records fetched", dto.FromModels(list))
}
