// file: internals/features/school/students/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	studentCtl "schoolku_backend/internals/features/school/students/controller"
	directory "schoolku_backend/internals/features/school/students/directory"
)

// Base: /api/a (school scope resolved by middleware)
func StudentAdminRoutes(api fiber.Router, dir directory.Directory) {
	ctl := studentCtl.NewStudentController(dir)

	r := api.Group("/students")
	r.Get("/", ctl.List)
}
