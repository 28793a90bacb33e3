// file: internals/features/school/promotions/controller/promotion_controller_test.go
package controller_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	classModel "schoolku_backend/internals/features/school/academics/classes/model"
	sessionModel "schoolku_backend/internals/features/school/academics/sessions/model"
	"schoolku_backend/internals/features/school/promotions/route"
	"schoolku_backend/internals/features/school/students/directory"
	studentModel "schoolku_backend/internals/features/school/students/model"
	"schoolku_backend/internals/middlewares"
)

type promoFixture struct {
	app      *fiber.App
	db       *gorm.DB
	schoolID uuid.UUID
	from     uuid.UUID
	to       uuid.UUID
	classes  map[string]uuid.UUID
}

func newPromoFixture(t *testing.T) *promoFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	for _, ddl := range []string{
		`CREATE TABLE sessions (
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
		)`,
		`CREATE TABLE classes (
			class_id         TEXT PRIMARY KEY,
			class_school_id  TEXT NOT NULL,
			class_name       TEXT NOT NULL,
			class_ordinal    INTEGER NOT NULL,
			class_created_at DATETIME NOT NULL,
			class_updated_at DATETIME NOT NULL,
			class_deleted_at DATETIME,
			CONSTRAINT uq_class_school_ordinal UNIQUE (class_school_id, class_ordinal)
		)`,
		`CREATE TABLE students (
			student_id                      TEXT PRIMARY KEY,
			student_school_id               TEXT NOT NULL,
			student_name                    TEXT NOT NULL,
			student_class_id                TEXT NOT NULL,
			student_section                 TEXT,
			student_is_active               BOOLEAN NOT NULL DEFAULT 1,
			student_is_transfer_cert_issued BOOLEAN NOT NULL DEFAULT 0,
			student_created_at              DATETIME NOT NULL,
			student_updated_at              DATETIME NOT NULL,
			student_deleted_at              DATETIME
		)`,
		`CREATE TABLE student_transitions (
			student_transition_id              TEXT PRIMARY KEY,
			student_transition_school_id       TEXT NOT NULL,
			student_transition_student_id      TEXT NOT NULL,
			student_transition_from_session_id TEXT NOT NULL,
			student_transition_to_session_id   TEXT NOT NULL,
			student_transition_from_class_id   TEXT NOT NULL,
			student_transition_to_class_id     TEXT NOT NULL,
			student_transition_status          TEXT NOT NULL,
			student_transition_remarks         TEXT,
			student_transition_meta            JSON,
			student_transition_created_at      DATETIME NOT NULL,
			CONSTRAINT uq_student_transition_target UNIQUE (student_transition_student_id, student_transition_to_session_id)
		)`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}

	f := &promoFixture{
		db:       db,
		schoolID: uuid.New(),
		classes:  map[string]uuid.UUID{},
	}

	from := sessionModel.SessionModel{
		SessionSchoolID:  f.schoolID,
		SessionYear:      "2025-26",
		SessionStartDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		SessionEndDate:   time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		SessionIsActive:  true,
		SessionVersion:   1,
	}
	require.NoError(t, db.Create(&from).Error)
	to := sessionModel.SessionModel{
		SessionSchoolID:  f.schoolID,
		SessionYear:      "2026-27",
		SessionStartDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		SessionEndDate:   time.Date(2027, 3, 20, 0, 0, 0, 0, time.UTC),
		SessionVersion:   1,
	}
	require.NoError(t, db.Create(&to).Error)
	f.from, f.to = from.SessionID, to.SessionID

	for i, name := range []string{"VIII", "IX", "X"} {
		ent := classModel.ClassModel{
			ClassSchoolID: f.schoolID,
			ClassName:     name,
			ClassOrdinal:  int16(i),
		}
		require.NoError(t, db.Create(&ent).Error)
		f.classes[name] = ent.ClassID
	}

	f.app = fiber.New()
	api := f.app.Group("/api/a", middlewares.UseSchoolScope())
	route.PromotionAdminRoutes(api, db, directory.NewGormDirectory(db))
	return f
}

func (f *promoFixture) addStudent(t *testing.T, name, className string) uuid.UUID {
	t.Helper()
	ent := studentModel.StudentModel{
		StudentSchoolID: f.schoolID,
		StudentName:     name,
		StudentClassID:  f.classes[className],
		StudentSection:  "A",
		StudentIsActive: true,
	}
	require.NoError(t, f.db.Create(&ent).Error)
	return ent.StudentID
}

func (f *promoFixture) post(t *testing.T, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-School-ID", f.schoolID.String())
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)

	var payload map[string]any
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &payload))
	}
	return resp, payload
}

func TestPromoteEndpoint_FullSuccess(t *testing.T) {
	f := newPromoFixture(t)
	a := f.addStudent(t, "Aisha", "VIII")
	b := f.addStudent(t, "Bilal", "IX")

	resp, payload := f.post(t, "/api/a/students/promote", fiber.Map{
		"from_session_id": f.from,
		"to_session_id":   f.to,
		"promotions": []fiber.Map{
			{"student_id": a, "section": "B"},
			{"student_id": b},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := payload["data"].(map[string]any)
	require.EqualValues(t, 2, data["succeeded"])
	require.EqualValues(t, 0, data["failed"])

	// replay comes back clean too, nothing double-applied
	resp, payload = f.post(t, "/api/a/students/promote", fiber.Map{
		"from_session_id": f.from,
		"to_session_id":   f.to,
		"promotions":      []fiber.Map{{"student_id": a}, {"student_id": b}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = payload["data"].(map[string]any)
	require.EqualValues(t, 0, data["succeeded"])
	require.EqualValues(t, 2, data["already"])
}

func TestPromoteEndpoint_PreconditionFailure(t *testing.T) {
	f := newPromoFixture(t)
	a := f.addStudent(t, "Aisha", "VIII")

	// swapped session ids: from is not the active session
	resp, payload := f.post(t, "/api/a/students/promote", fiber.Map{
		"from_session_id": f.to,
		"to_session_id":   f.from,
		"promotions":      []fiber.Map{{"student_id": a}},
	})
	require.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)
	require.Equal(t, "PRECONDITION_FAILED", payload["error_code"])
}

func TestPromoteEndpoint_RejectsEmptyBatch(t *testing.T) {
	f := newPromoFixture(t)
	resp, _ := f.post(t, "/api/a/students/promote", fiber.Map{
		"from_session_id": f.from,
		"to_session_id":   f.to,
		"promotions":      []fiber.Map{},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPromoteEndpoint_MalformedPayload(t *testing.T) {
	f := newPromoFixture(t)
	req := httptest.NewRequest(http.MethodPost, "/api/a/students/promote", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-School-ID", f.schoolID.String())
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Equal(t, "BAD_REQUEST", payload["error_code"])
}

func TestDropEndpoint(t *testing.T) {
	f := newPromoFixture(t)
	a := f.addStudent(t, "Aisha", "IX")

	resp, payload := f.post(t, "/api/a/students/drop", fiber.Map{
		"from_session_id": f.from,
		"to_session_id":   f.to,
		"drops":           []fiber.Map{{"student_id": a, "remarks": "moved city"}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := payload["data"].(map[string]any)
	require.EqualValues(t, 1, data["succeeded"])

	results := data["results"].([]any)
	require.Equal(t, "dropped_out", results[0].(map[string]any)["status"])
}

func TestHistoryEndpoints(t *testing.T) {
	f := newPromoFixture(t)
	a := f.addStudent(t, "Aisha", "VIII")
	b := f.addStudent(t, "Bilal", "IX")

	resp, _ := f.post(t, "/api/a/students/promote", fiber.Map{
		"from_session_id": f.from,
		"to_session_id":   f.to,
		"promotions":      []fiber.Map{{"student_id": a}, {"student_id": b}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/a/student-sessions/by-school/"+f.schoolID.String(), nil)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Len(t, payload["data"].([]any), 2)
	require.EqualValues(t, 2, payload["pagination"].(map[string]any)["total"])

	req = httptest.NewRequest(http.MethodGet, "/api/a/student-sessions/by-student/"+a.String(), nil)
	req.Header.Set("X-School-ID", f.schoolID.String())
	resp, err = f.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	payload = map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Len(t, payload["data"].([]any), 1)
}
