package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals key set by the school-scope middleware.
const LocSchoolID = "school_id"

// GetSchoolID returns the school scope resolved by the middleware.
// 401 when the request carries no school context at all.
func GetSchoolID(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals(LocSchoolID)
	s, _ := v.(string)
	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "school context not found")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid school id")
	}
	return id, nil
}
