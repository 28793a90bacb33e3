// file: internals/features/school/academics/sessions/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	sessionCtl "schoolku_backend/internals/features/school/academics/sessions/controller"
)

// Base: /api/a (school scope resolved by middleware)
func SessionAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctl := sessionCtl.NewSessionController(db, nil)

	r := api.Group("/sessions")
	r.Post("/", ctl.Create)
	r.Get("/", ctl.List)
	r.Get("/active", ctl.GetActive)
	r.Get("/:id/next", ctl.GetNext)
	r.Patch("/:id", ctl.Patch)
	r.Delete("/:id", ctl.Delete)
	r.Post("/:id/restore", ctl.Restore)
}
