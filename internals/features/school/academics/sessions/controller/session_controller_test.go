// file: internals/features/school/academics/sessions/controller/session_controller_test.go
package controller_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"schoolku_backend/internals/features/school/academics/sessions/route"
	"schoolku_backend/internals/middlewares"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec(`
		CREATE TABLE sessions (
			session_id         TEXT PRIMARY KEY,
			session_school_id  TEXT NOT NULL,
			session_year       TEXT NOT NULL,
			session_start_date DATETIME NOT NULL,
			session_end_date   DATETIME NOT NULL,
			session_is_active  BOOLEAN NOT NULL DEFAULT 0,
			session_version    INTEGER NOT NULL DEFAULT 1,
			session_created_at DATETIME NOT NULL,
			session_updated_at DATETIME NOT NULL,
			session_deleted_at DATETIME
		)`).Error)

	app := fiber.New()
	api := app.Group("/api/a", middlewares.UseSchoolScope())
	route.SessionAdminRoutes(api, db)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, schoolID string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if schoolID != "" {
		req.Header.Set("X-School-ID", schoolID)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var payload map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &payload))
	}
	return resp, payload
}

func createSession(t *testing.T, app *fiber.App, schoolID, year, start, end string) string {
	t.Helper()
	resp, payload := doJSON(t, app, http.MethodPost, "/api/a/sessions", schoolID, fiber.Map{
		"session_year":       year,
		"session_start_date": start,
		"session_end_date":   end,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := payload["data"].(map[string]any)
	return data["session_id"].(string)
}

func TestSessions_RequireSchoolScope(t *testing.T) {
	app := newTestApp(t)
	resp, payload := doJSON(t, app, http.MethodGet, "/api/a/sessions", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "UNAUTHORIZED", payload["error_code"])
}

func TestSessions_CreateAndDuplicateYear(t *testing.T) {
	app := newTestApp(t)
	schoolID := uuid.New().String()

	createSession(t, app, schoolID, "2025-26", "2025-04-01T00:00:00Z", "2026-03-20T00:00:00Z")

	resp, payload := doJSON(t, app, http.MethodPost, "/api/a/sessions", schoolID, fiber.Map{
		"session_year":       "2025-26",
		"session_start_date": "2025-04-01T00:00:00Z",
		"session_end_date":   "2026-03-20T00:00:00Z",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, "DUPLICATE", payload["error_code"])

	// the same label is free for another school
	resp, _ = doJSON(t, app, http.MethodPost, "/api/a/sessions", uuid.New().String(), fiber.Map{
		"session_year":       "2025-26",
		"session_start_date": "2025-04-01T00:00:00Z",
		"session_end_date":   "2026-03-20T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestSessions_CreateRejectsInvertedDates(t *testing.T) {
	app := newTestApp(t)
	resp, _ := doJSON(t, app, http.MethodPost, "/api/a/sessions", uuid.New().String(), fiber.Map{
		"session_year":       "2025-26",
		"session_start_date": "2026-03-20T00:00:00Z",
		"session_end_date":   "2025-04-01T00:00:00Z",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessions_ActivateFlow(t *testing.T) {
	app := newTestApp(t)
	schoolID := uuid.New().String()

	s1 := createSession(t, app, schoolID, "2024-25", "2024-04-01T00:00:00Z", "2025-03-20T00:00:00Z")
	s2 := createSession(t, app, schoolID, "2025-26", "2025-04-01T00:00:00Z", "2026-03-20T00:00:00Z")

	// no active session yet
	resp, _ := doJSON(t, app, http.MethodGet, "/api/a/sessions/active", schoolID, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPatch, "/api/a/sessions/"+s1, schoolID, fiber.Map{"session_is_active": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, payload := doJSON(t, app, http.MethodGet, "/api/a/sessions/active", schoolID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, s1, payload["data"].(map[string]any)["session_id"])

	// swap to the successor
	resp, _ = doJSON(t, app, http.MethodPatch, "/api/a/sessions/"+s2, schoolID, fiber.Map{"session_is_active": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, payload = doJSON(t, app, http.MethodGet, "/api/a/sessions/active", schoolID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, s2, payload["data"].(map[string]any)["session_id"])
}

func TestSessions_DirectDeactivationRejected(t *testing.T) {
	app := newTestApp(t)
	schoolID := uuid.New().String()
	s1 := createSession(t, app, schoolID, "2025-26", "2025-04-01T00:00:00Z", "2026-03-20T00:00:00Z")

	resp, payload := doJSON(t, app, http.MethodPatch, "/api/a/sessions/"+s1, schoolID, fiber.Map{"session_is_active": false})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, payload["message"], "cannot deactivate")
}

func TestSessions_Next(t *testing.T) {
	app := newTestApp(t)
	schoolID := uuid.New().String()
	s1 := createSession(t, app, schoolID, "2024-25", "2024-04-01T00:00:00Z", "2025-03-20T00:00:00Z")
	s2 := createSession(t, app, schoolID, "2025-26", "2025-04-01T00:00:00Z", "2026-03-20T00:00:00Z")

	resp, payload := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/a/sessions/%s/next", s1), schoolID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, s2, payload["data"].(map[string]any)["session_id"])

	resp, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/a/sessions/%s/next", s2), schoolID, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessions_DeleteAndRestore(t *testing.T) {
	app := newTestApp(t)
	schoolID := uuid.New().String()
	s1 := createSession(t, app, schoolID, "2024-25", "2024-04-01T00:00:00Z", "2025-03-20T00:00:00Z")
	s2 := createSession(t, app, schoolID, "2025-26", "2025-04-01T00:00:00Z", "2026-03-20T00:00:00Z")

	resp, _ := doJSON(t, app, http.MethodPatch, "/api/a/sessions/"+s1, schoolID, fiber.Map{"session_is_active": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// the active session cannot be deleted
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/a/sessions/"+s1, schoolID, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/a/sessions/"+s2, schoolID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// gone from the listing until restored
	_, payload := doJSON(t, app, http.MethodGet, "/api/a/sessions", schoolID, nil)
	require.Len(t, payload["data"].([]any), 1)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/a/sessions/"+s2+"/restore", schoolID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, payload = doJSON(t, app, http.MethodGet, "/api/a/sessions", schoolID, nil)
	require.Len(t, payload["data"].([]any), 2)
}
