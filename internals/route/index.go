// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/configs"
	directory "schoolku_backend/internals/features/school/students/directory"
	middlewares "schoolku_backend/internals/middlewares"
	routeDetails "schoolku_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// Student Directory: remote when a base URL is configured, otherwise
	// the embedded same-DB implementation.
	var dir directory.Directory
	if configs.DirectoryBaseURL != "" {
		log.Printf("[INFO] using remote student directory at %s", configs.DirectoryBaseURL)
		dir = directory.NewHTTPDirectory(configs.DirectoryBaseURL, configs.DirectoryTimeout)
	} else {
		log.Println("[INFO] using embedded student directory")
		dir = directory.NewGormDirectory(db)
	}

	// ===================== ADMIN (per school) =====================
	log.Println("[INFO] Setting up ADMIN group (school scope)...")
	admin := app.Group("/api/a", middlewares.UseSchoolScope())

	routeDetails.AcademicRoutes(admin, db, dir)
}
