// file: internals/features/school/academics/classes/service/class_service_test.go
package service

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"schoolku_backend/internals/features/school/academics/classes/model"
)

func openTestDB(t *testing.T) *gorm.DB {
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
		CREATE TABLE classes (
			class_id         TEXT PRIMARY KEY,
			class_school_id  TEXT NOT NULL,
			class_name       TEXT NOT NULL,
			class_ordinal    INTEGER NOT NULL,
			class_created_at DATETIME NOT NULL,
			class_updated_at DATETIME NOT NULL,
			class_deleted_at DATETIME,
			CONSTRAINT uq_class_school_ordinal UNIQUE (class_school_id, class_ordinal)
		)`).Error)
	return db
}

func seedLadder(t *testing.T, db *gorm.DB, schoolID uuid.UUID, names ...string) []model.ClassModel {
	t.Helper()
	svc := NewClassCatalog()
	out := make([]model.ClassModel, 0, len(names))
	for i, name := range names {
		ent := model.ClassModel{
			ClassSchoolID: schoolID,
			ClassName:     name,
			ClassOrdinal:  int16(i),
		}
		require.NoError(t, svc.Create(db, &ent))
		out = append(out, ent)
	}
	return out
}

func TestCreate_RejectsGapInLadder(t *testing.T) {
	db := openTestDB(t)
	svc := NewClassCatalog()
	schoolID := uuid.New()
	seedLadder(t, db, schoolID, "I", "II")

	ent := model.ClassModel{ClassSchoolID: schoolID, ClassName: "V", ClassOrdinal: 4}
	err := svc.Create(db, &ent)
	require.Error(t, err)
	var fe *fiber.Error
	require.True(t, errors.As(err, &fe))
	require.Equal(t, fiber.StatusBadRequest, fe.Code)
}

func TestCreate_LaddersAreIndependentPerSchool(t *testing.T) {
	db := openTestDB(t)
	schoolA, schoolB := uuid.New(), uuid.New()
	seedLadder(t, db, schoolA, "I", "II", "III")
	// ordinal 0 is free again for the second school
	seedLadder(t, db, schoolB, "LKG")
}

func TestNext_ReturnsFollowingOrdinal(t *testing.T) {
	db := openTestDB(t)
	svc := NewClassCatalog()
	schoolID := uuid.New()
	ladder := seedLadder(t, db, schoolID, "VIII", "IX", "X")

	next, top, err := svc.Next(db, schoolID, ladder[0].ClassID)
	require.NoError(t, err)
	require.False(t, top)
	require.Equal(t, ladder[1].ClassID, next.ClassID)
	require.Equal(t, int16(1), next.ClassOrdinal)
}

func TestNext_TopOfLadderNeverWraps(t *testing.T) {
	db := openTestDB(t)
	svc := NewClassCatalog()
	schoolID := uuid.New()
	ladder := seedLadder(t, db, schoolID, "X", "XI", "XII")

	next, top, err := svc.Next(db, schoolID, ladder[2].ClassID)
	require.NoError(t, err)
	require.True(t, top)
	// same class comes back, not ordinal 0
	require.Equal(t, ladder[2].ClassID, next.ClassID)
}

func TestNext_UnknownClass(t *testing.T) {
	db := openTestDB(t)
	svc := NewClassCatalog()

	_, _, err := svc.Next(db, uuid.New(), uuid.New())
	require.Error(t, err)
	var fe *fiber.Error
	require.True(t, errors.As(err, &fe))
	require.Equal(t, fiber.StatusNotFound, fe.Code)
}

func TestList_SortedByOrdinal(t *testing.T) {
	db := openTestDB(t)
	svc := NewClassCatalog()
	schoolID := uuid.New()
	seedLadder(t, db, schoolID, "LKG", "UKG", "I", "II")

	list, err := svc.List(db, schoolID)
	require.NoError(t, err)
	require.Len(t, list, 4)
	for i, it := range list {
		require.Equal(t, int16(i), it.ClassOrdinal)
	}
}
