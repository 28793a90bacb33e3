// file: internals/features/school/students/directory/directory.go
package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrUnknownOutcome: the directory call timed out or the connection broke
// mid-flight, so neither success nor failure can be assumed. Callers must
// re-query before retrying; the ledger's idempotence key makes the retry
// itself safe.
var ErrUnknownOutcome = errors.New("directory outcome unknown")

// StudentRecord is the directory's view of one enrollment.
type StudentRecord struct {
	StudentID            uuid.UUID `json:"student_id"`
	SchoolID             uuid.UUID `json:"school_id"`
	Name                 string    `json:"name"`
	ClassID              uuid.UUID `json:"class_id"`
	Section              string    `json:"section"`
	IsActive             bool      `json:"is_active"`
	IsTransferCertIssued bool      `json:"is_transfer_cert_issued"`
}

// ClassChange moves one student to a new class. Graduated means the student
// leaves the ladder entirely (top class): class stays, enrollment closes.
type ClassChange struct {
	StudentID uuid.UUID `json:"student_id"`
	ToClassID uuid.UUID `json:"to_class_id"`
	Section   string    `json:"section,omitempty"`
	Graduated bool      `json:"graduated,omitempty"`
}

// Drop marks one student as not continuing; the class is left untouched.
type Drop struct {
	StudentID uuid.UUID `json:"student_id"`
}

// Directory is the external Student Directory collaborator. Batch writes are
// one call per batch (not per student) to bound the blast radius of a
// partial upstream failure.
type Directory interface {
	ListActive(ctx context.Context, schoolID uuid.UUID, classID *uuid.UUID) ([]StudentRecord, error)
	Get(ctx context.Context, schoolID, studentID uuid.UUID) (StudentRecord, error)
	ApplyPromotions(ctx context.Context, schoolID uuid.UUID, batch []ClassChange) error
	ApplyDrops(ctx context.Context, schoolID uuid.UUID, batch []Drop) error
}
