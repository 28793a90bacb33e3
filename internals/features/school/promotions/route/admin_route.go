// file: internals/features/school/promotions/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	promotionCtl "schoolku_backend/internals/features/school/promotions/controller"
	directory "schoolku_backend/internals/features/school/students/directory"
	middlewares "schoolku_backend/internals/middlewares"
)

// Base: /api/a (school scope resolved by middleware)
func PromotionAdminRoutes(api fiber.Router, db *gorm.DB, dir directory.Directory) {
	ctl := promotionCtl.NewPromotionController(db, nil, dir)
	histCtl := promotionCtl.NewHistoryController(db)

	batch := api.Group("/students", middlewares.BatchRateLimiter())
	batch.Post("/promote", ctl.Promote)
	batch.Post("/drop", ctl.Drop)

	r := api.Group("/student-sessions")
	r.Get("/by-school/:school_id", histCtl.ListBySchool)
	r.Get("/by-student/:student_id", histCtl.ListByStudent)
}
