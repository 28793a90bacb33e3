// file: internals/features/school/promotions/service/promotion_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	classService "schoolku_backend/internals/features/school/academics/classes/service"
	sessionService "schoolku_backend/internals/features/school/academics/sessions/service"
	"schoolku_backend/internals/features/school/promotions/dto"
	"schoolku_backend/internals/features/school/promotions/model"
	"schoolku_backend/internals/features/school/students/directory"
)

/* =========================
   Input types
========================= */

type Decision string

const (
	DecisionPromoted Decision = "promoted"
	DecisionDropOut  Decision = "drop_out"
)

type BatchItem struct {
	StudentID uuid.UUID
	Decision  Decision
	Section   string
	Remarks   string
}

/* =========================
   Executor
========================= */

// Executor runs one promotion/drop batch end to end: precondition checks
// (all-or-nothing), class resolution, the two directory sub-batches, and one
// ledger entry per processed student. A failed sub-batch never rolls back
// the other one; callers retry the failed subset, which the ledger's
// idempotence key makes safe.
type Executor struct {
	Sessions  sessionService.SessionService
	Catalog   classService.ClassCatalog
	Ledger    LedgerService
	Directory directory.Directory
}

func NewExecutor(dir directory.Directory) *Executor {
	return &Executor{
		Sessions:  sessionService.NewSessionService(),
		Catalog:   classService.NewClassCatalog(),
		Ledger:    NewLedgerService(),
		Directory: dir,
	}
}

type plannedItem struct {
	item        BatchItem
	fromClassID uuid.UUID
	toClassID   uuid.UUID
	status      string // ledger status
	already     bool
	// reconcile: the terminal state (drop/graduation) already holds in the
	// directory but the ledger row is missing, usually after an earlier run
	// whose outcome was unknown. Only the record is written, no directory call.
	reconcile bool
}

// Execute runs the whole batch. The returned BatchResultDTO always carries
// one entry per input student; the error is non-nil only for whole-call
// failures (preconditions, upstream unreachable before any write).
func (e *Executor) Execute(ctx context.Context, db *gorm.DB, schoolID, fromSessionID, toSessionID uuid.UUID, items []BatchItem) (dto.BatchResultDTO, error) {
	var out dto.BatchResultDTO

	if len(items) == 0 {
		return out, fiber.NewError(fiber.StatusBadRequest, "empty batch")
	}
	seen := make(map[uuid.UUID]bool, len(items))
	for _, it := range items {
		if seen[it.StudentID] {
			return out, fiber.NewError(fiber.StatusBadRequest, "duplicate student in batch: "+it.StudentID.String())
		}
		seen[it.StudentID] = true
		if it.Decision != DecisionPromoted && it.Decision != DecisionDropOut {
			return out, fiber.NewError(fiber.StatusBadRequest, "unknown decision: "+string(it.Decision))
		}
	}

	// ---- Preconditions (nothing is written unless all hold) ----

	active, err := e.Sessions.GetActive(db, schoolID)
	if err != nil {
		if isStatus(err, fiber.StatusNotFound) {
			return out, fiber.NewError(fiber.StatusPreconditionFailed, "no active session for this school")
		}
		return out, err
	}
	if active.SessionID != fromSessionID {
		return out, fiber.NewError(fiber.StatusPreconditionFailed, "from_session_id is not the active session")
	}

	next, err := e.Sessions.Next(db, schoolID, fromSessionID)
	if err != nil {
		if isStatus(err, fiber.StatusNotFound) {
			return out, fiber.NewError(fiber.StatusPreconditionFailed, "next session does not exist: create it first")
		}
		return out, err
	}
	if next.SessionID != toSessionID {
		return out, fiber.NewError(fiber.StatusPreconditionFailed, "to_session_id is not the session following the active one")
	}

	// Resolve existing ledger rows before the active-student check: an
	// inactive student may be a replay or a terminal state that landed
	// while its outcome was unknown, and neither may block the batch.
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.StudentID)
	}
	existing, err := e.Ledger.ExistingStudents(db, toSessionID, ids)
	if err != nil {
		return out, err
	}

	planned := make([]plannedItem, 0, len(items))
	var badStudents []string
	for _, it := range items {
		rec, err := e.Directory.Get(ctx, schoolID, it.StudentID)
		if err != nil {
			if errors.Is(err, directory.ErrUnknownOutcome) {
				return out, fiber.NewError(fiber.StatusGatewayTimeout, "student directory timed out")
			}
			if isStatus(err, fiber.StatusNotFound) {
				badStudents = append(badStudents, it.StudentID.String())
				continue
			}
			return out, err
		}
		if rec.SchoolID != schoolID {
			badStudents = append(badStudents, it.StudentID.String())
			continue
		}

		p := plannedItem{item: it, fromClassID: rec.ClassID}
		if existing[it.StudentID] {
			p.already = true
			if !rec.IsActive {
				p.toClassID = rec.ClassID
				p.status = terminalStatus(it.Decision)
			}
			planned = append(planned, p)
			continue
		}
		if !rec.IsActive {
			// The drop or graduation may already hold in the directory with
			// the ledger row missing (outcome "unknown" on an earlier run).
			// Write the missing record instead of rejecting forever.
			switch {
			case it.Decision == DecisionDropOut:
				p.reconcile = true
				p.toClassID = rec.ClassID
				p.status = model.TransitionStatusDropOut
			case it.Decision == DecisionPromoted && rec.IsTransferCertIssued:
				_, top, err := e.Catalog.Next(db, schoolID, rec.ClassID)
				if err != nil {
					return out, err
				}
				if !top {
					badStudents = append(badStudents, it.StudentID.String())
					continue
				}
				p.reconcile = true
				p.toClassID = rec.ClassID
				p.status = model.TransitionStatusGraduated
			default:
				badStudents = append(badStudents, it.StudentID.String())
				continue
			}
		}
		planned = append(planned, p)
	}
	if len(badStudents) > 0 {
		return out, fiber.NewError(fiber.StatusPreconditionFailed,
			"students missing, inactive or out of scope: "+strings.Join(badStudents, ", "))
	}

	// ---- Plan: resolve destination classes ----

	for i := range planned {
		p := &planned[i]
		if p.status != "" {
			continue // resolved during validation (replay or reconcile)
		}
		switch p.item.Decision {
		case DecisionPromoted:
			nextClass, top, err := e.Catalog.Next(db, schoolID, p.fromClassID)
			if err != nil {
				return out, err
			}
			p.toClassID = nextClass.ClassID
			if top {
				// top of the ladder: same class, explicit graduation
				p.status = model.TransitionStatusGraduated
			} else {
				p.status = model.TransitionStatusPromoted
			}
		case DecisionDropOut:
			p.toClassID = p.fromClassID
			p.status = model.TransitionStatusDropOut
		default:
			return out, fiber.NewError(fiber.StatusBadRequest, "unknown decision: "+string(p.item.Decision))
		}
	}

	var promoBatch []directory.ClassChange
	var dropBatch []directory.Drop
	for i := range planned {
		p := &planned[i]
		if p.already || p.reconcile {
			continue
		}
		switch p.status {
		case model.TransitionStatusDropOut:
			dropBatch = append(dropBatch, directory.Drop{StudentID: p.item.StudentID})
		default:
			promoBatch = append(promoBatch, directory.ClassChange{
				StudentID: p.item.StudentID,
				ToClassID: p.toClassID,
				Section:   p.item.Section,
				Graduated: p.status == model.TransitionStatusGraduated,
			})
		}
	}

	// ---- Two sub-batches, one directory call each ----

	errPromo := e.Directory.ApplyPromotions(ctx, schoolID, promoBatch)
	errDrop := e.Directory.ApplyDrops(ctx, schoolID, dropBatch)

	// ---- Ledger + per-item results ----

	for _, p := range planned {
		res := dto.ItemResultDTO{
			StudentID:   p.item.StudentID,
			Status:      p.status,
			FromClassID: p.fromClassID,
			ToClassID:   p.toClassID,
		}
		if p.already {
			res.Outcome = "already"
			out.Already++
			out.Results = append(out.Results, res)
			continue
		}
		if p.reconcile {
			ent := newTransition(schoolID, fromSessionID, toSessionID, p)
			if err := e.Ledger.Append(db, &ent); err != nil && !isStatus(err, fiber.StatusConflict) {
				res.Outcome = "unknown"
				res.Error = "transition applied but not recorded: re-query before retrying"
				out.Unknown++
			} else {
				res.Outcome = "already"
				out.Already++
			}
			out.Results = append(out.Results, res)
			continue
		}

		batchErr := errPromo
		if p.status == model.TransitionStatusDropOut {
			batchErr = errDrop
		}
		if batchErr != nil {
			if errors.Is(batchErr, directory.ErrUnknownOutcome) {
				res.Outcome = "unknown"
				res.Error = "directory outcome unknown: re-query before retrying"
				out.Unknown++
			} else {
				res.Outcome = "failed"
				res.Error = errMessage(batchErr)
				out.Failed++
			}
			out.Results = append(out.Results, res)
			continue
		}

		ent := newTransition(schoolID, fromSessionID, toSessionID, p)
		if err := e.Ledger.Append(db, &ent); err != nil {
			if isStatus(err, fiber.StatusConflict) {
				// lost a race with a concurrent replay; the intended state holds
				res.Outcome = "already"
				out.Already++
			} else {
				// directory write landed but the ledger append did not:
				// surface as unknown so the caller re-queries instead of
				// blindly re-submitting
				res.Outcome = "unknown"
				res.Error = "transition applied but not recorded: re-query before retrying"
				out.Unknown++
			}
			out.Results = append(out.Results, res)
			continue
		}

		res.Outcome = "ok"
		out.Succeeded++
		out.Results = append(out.Results, res)
	}

	log.Printf("[Promotions] Execute schoolID=%s from=%s to=%s ok=%d already=%d failed=%d unknown=%d",
		schoolID, fromSessionID, toSessionID, out.Succeeded, out.Already, out.Failed, out.Unknown)
	return out, nil
}

/* =========================
   small helpers
========================= */

func newTransition(schoolID, fromSessionID, toSessionID uuid.UUID, p plannedItem) model.StudentTransitionModel {
	ent := model.StudentTransitionModel{
		StudentTransitionSchoolID:      schoolID,
		StudentTransitionStudentID:     p.item.StudentID,
		StudentTransitionFromSessionID: fromSessionID,
		StudentTransitionToSessionID:   toSessionID,
		StudentTransitionFromClassID:   p.fromClassID,
		StudentTransitionToClassID:     p.toClassID,
		StudentTransitionStatus:        p.status,
	}
	if r := strings.TrimSpace(p.item.Remarks); r != "" {
		ent.StudentTransitionRemarks = &r
	}
	if p.item.Section != "" {
		ent.StudentTransitionMeta = datatypes.JSONMap{"section": p.item.Section}
	}
	return ent
}

// terminalStatus names the state an inactive student already sits in for
// a replayed decision.
func terminalStatus(d Decision) string {
	if d == DecisionDropOut {
		return model.TransitionStatusDropOut
	}
	return model.TransitionStatusGraduated
}

func isStatus(err error, code int) bool {
	var fe *fiber.Error
	return errors.As(err, &fe) && fe.Code == code
}

func errMessage(err error) string {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	return fmt.Sprintf("%v", err)
}
