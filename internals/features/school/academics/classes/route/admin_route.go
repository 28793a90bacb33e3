// file: internals/features/school/academics/classes/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	classCtl "schoolku_backend/internals/features/school/academics/classes/controller"
)

// Base: /api/a (school scope resolved by middleware)
func ClassAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctl := classCtl.NewClassController(db, nil)

	r := api.Group("/classes")
	r.Get("/", ctl.List)
	r.Post("/", ctl.Create)
	r.Get("/:id/next", ctl.GetNext)
}
