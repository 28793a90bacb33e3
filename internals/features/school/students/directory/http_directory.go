// file: internals/features/school/students/directory/http_directory.go
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HTTPDirectory talks to a remote Student Directory over REST. Every call is
// bounded by the caller's context; a deadline hit on a write is reported as
// ErrUnknownOutcome because the remote side may or may not have committed.
type HTTPDirectory struct {
	BaseURL string
	Client  *http.Client
	Timeout time.Duration
}

func NewHTTPDirectory(baseURL string, timeout time.Duration) *HTTPDirectory {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPDirectory{
		BaseURL: baseURL,
		Client:  &http.Client{},
		Timeout: timeout,
	}
}

func (d *HTTPDirectory) ListActive(ctx context.Context, schoolID uuid.UUID, classID *uuid.UUID) ([]StudentRecord, error) {
	q := url.Values{}
	q.Set("school_id", schoolID.String())
	q.Set("active", "true")
	if classID != nil {
		q.Set("class_id", classID.String())
	}
	var payload struct {
		Data []StudentRecord `json:"data"`
	}
	if err := d.do(ctx, http.MethodGet, "/students?"+q.Encode(), nil, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

func (d *HTTPDirectory) Get(ctx context.Context, schoolID, studentID uuid.UUID) (StudentRecord, error) {
	var payload struct {
		Data StudentRecord `json:"data"`
	}
	path := fmt.Sprintf("/students/%s?school_id=%s", studentID, schoolID)
	if err := d.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return StudentRecord{}, err
	}
	return payload.Data, nil
}

func (d *HTTPDirectory) ApplyPromotions(ctx context.Context, schoolID uuid.UUID, batch []ClassChange) error {
	if len(batch) == 0 {
		return nil
	}
	body := fiber.Map{"school_id": schoolID, "changes": batch}
	return d.do(ctx, http.MethodPost, "/students/class-changes", body, nil)
}

func (d *HTTPDirectory) ApplyDrops(ctx context.Context, schoolID uuid.UUID, batch []Drop) error {
	if len(batch) == 0 {
		return nil
	}
	body := fiber.Map{"school_id": schoolID, "drops": batch}
	return d.do(ctx, http.MethodPost, "/students/drops", body, nil)
}

func (d *HTTPDirectory) do(ctx context.Context, method, path string, body any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to encode directory request")
		}
		rdr = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.BaseURL+path, rdr)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to build directory request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := d.Client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			log.Printf("[Directory] TIMEOUT %s %s err=%v", method, path, err)
			return ErrUnknownOutcome
		}
		// A refused connection means the request never went out. Any other
		// transport error on a write (reset mid-response, broken pipe) may
		// have reached a remote that committed, so the outcome is unknown.
		if method != http.MethodGet && !errors.Is(err, syscall.ECONNREFUSED) {
			log.Printf("[Directory] BROKEN %s %s err=%v", method, path, err)
			return ErrUnknownOutcome
		}
		log.Printf("[Directory] ERROR %s %s err=%v", method, path, err)
		return fiber.NewError(fiber.StatusBadGateway, "directory unreachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fiber.NewError(fiber.StatusBadGateway, "malformed directory response")
			}
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fiber.NewError(fiber.StatusNotFound, "student not found")
	default:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<10))
		log.Printf("[Directory] ERROR %s %s status=%d body=%s", method, path, resp.StatusCode, raw)
		return fiber.NewError(fiber.StatusBadGateway, "directory request failed")
	}
}
