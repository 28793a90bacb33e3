package middlewares

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	helper "schoolku_backend/internals/helpers"
)

// extractSchoolID resolves the school scope of a request, in order:
// path param, query, X-School-ID header, JSON body (best effort).
// Authentication itself is handled upstream (gateway); every call still has
// to name its school explicitly, there is no implicit session affinity.
func extractSchoolID(c *fiber.Ctx) string {
	if v := strings.TrimSpace(c.Params("school_id")); v != "" {
		return v
	}
	if v := strings.TrimSpace(c.Query("school_id")); v != "" {
		return v
	}
	if v := strings.TrimSpace(c.Get("X-School-ID")); v != "" {
		return v
	}
	ct := strings.ToLower(strings.TrimSpace(c.Get(fiber.HeaderContentType)))
	if strings.HasPrefix(ct, fiber.MIMEApplicationJSON) {
		if b := c.Body(); len(b) > 0 {
			var body map[string]any
			_ = json.Unmarshal(b, &body)
			if s, ok := body["school_id"].(string); ok {
				if v := strings.TrimSpace(s); v != "" {
					return v
				}
			}
		}
	}
	return ""
}

// UseSchoolScope stores the resolved school id in Locals for the handlers.
// Rejects requests without a valid school scope early.
func UseSchoolScope() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := extractSchoolID(c)
		if raw == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "school context not found")
		}
		if _, err := uuid.Parse(raw); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid school id")
		}
		c.Locals(helper.LocSchoolID, raw)
		return c.Next()
	}
}
