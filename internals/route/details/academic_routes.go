// file: internals/route/details/academic_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	classRoute "schoolku_backend/internals/features/school/academics/classes/route"
	sessionRoute "schoolku_backend/internals/features/school/academics/sessions/route"
	promotionRoute "schoolku_backend/internals/features/school/promotions/route"
	directory "schoolku_backend/internals/features/school/students/directory"
	studentRoute "schoolku_backend/internals/features/school/students/route"
)

// AcademicRoutes mounts the session, catalog, roster and promotion routes
// on the school-scoped admin group.
func AcademicRoutes(admin fiber.Router, db *gorm.DB, dir directory.Directory) {
	sessionRoute.SessionAdminRoutes(admin, db)
	classRoute.ClassAdminRoutes(admin, db)
	studentRoute.StudentAdminRoutes(admin, dir)
	promotionRoute.PromotionAdminRoutes(admin, db, dir)
}
