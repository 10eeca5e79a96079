// Package handlers implements the HTTP endpoints of the scan API.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Shivanikinagi/arthiksetu-engine/internal/api/middleware"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/domain"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/engine"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/ingest"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/jobs"
)

// ScanRequest is the wire shape of a scan call: a raw message batch plus
// the reporting window bounds, half-open.
type ScanRequest struct {
	Messages    []domain.RawMessage `json:"messages"`
	WindowStart time.Time           `json:"window_start"`
	WindowEnd   time.Time           `json:"window_end"`
	Enrich      bool                `json:"enrich"`
}

// ScanHandler handles synchronous and asynchronous scan endpoints.
type ScanHandler struct {
	scanner   *engine.Scanner
	publisher jobs.Publisher
	batchCap  int
	log       zerolog.Logger
}

// NewScanHandler creates a new scan handler.
func NewScanHandler(scanner *engine.Scanner, publisher jobs.Publisher, batchCap int, log zerolog.Logger) *ScanHandler {
	return &ScanHandler{
		scanner:   scanner,
		publisher: publisher,
		batchCap:  batchCap,
		log:       log,
	}
}

// Scan handles POST /api/scan. The whole pipeline runs inside the request;
// the response is the aggregation window plus the contributing
// transactions for audit.
func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	mode := engine.EnrichOff
	if req.Enrich {
		mode = h.scanner.Mode()
	}

	result, err := h.scanner.ScanWithMode(r.Context(), req.Messages, req.WindowStart, req.WindowEnd, mode)
	if err != nil {
		// Only cancellation reaches here; parse failures never fail a batch.
		h.log.Warn().Err(err).Msg("Scan aborted")
		middleware.WriteError(w, http.StatusRequestTimeout, "Scan cancelled")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, result)
}

// ScanAsync handles POST /api/scan/async by enqueuing a scan job.
func (h *ScanHandler) ScanAsync(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	job := &jobs.ScanBatchJob{
		Messages:    req.Messages,
		WindowStart: req.WindowStart,
		WindowEnd:   req.WindowEnd,
		Enrich:      req.Enrich,
	}

	if err := h.publisher.PublishScanBatch(r.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue scan job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue scan job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Int("messages", len(req.Messages)).Msg("Scan job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"status": string(job.Status),
	})
}

func (h *ScanHandler) decode(w http.ResponseWriter, r *http.Request) (*ScanRequest, bool) {
	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}

	if req.WindowStart.IsZero() || req.WindowEnd.IsZero() {
		middleware.WriteError(w, http.StatusBadRequest, "window_start and window_end are required")
		return nil, false
	}
	if req.WindowEnd.Before(req.WindowStart) {
		middleware.WriteError(w, http.StatusBadRequest, "window_end must not precede window_start")
		return nil, false
	}
	if len(req.Messages) > h.batchCap {
		middleware.WriteError(w, http.StatusBadRequest,
			fmt.Sprintf("batch too large: %d messages, cap is %d", len(req.Messages), h.batchCap))
		return nil, false
	}

	ingest.NormalizeBatch(req.Messages)
	return &req, true
}
