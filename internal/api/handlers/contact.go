package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dkranz/leadgate/internal/contact"
)

type ContactHandler struct {
	pipeline *contact.Pipeline
	stats    *contact.Stats
	dev      bool
}

func NewContactHandler(pipeline *contact.Pipeline, stats *contact.Stats, dev bool) *ContactHandler {
	return &ContactHandler{pipeline: pipeline, stats: stats, dev: dev}
}

// Submit handles POST /api/contact. Validation failures answer 400 before
// any sink is touched. After the fan-out settles, the response is binary:
// nothing configured or anything delivered is a 200, configured-but-all-
// failed is a 500. Which sink failed is never surfaced to the caller.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var sub contact.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "An unexpected error occurred"})
		return
	}

	if err := sub.Validate(); err != nil {
		h.stats.RecordRejected(r.Context())
		switch {
		case errors.Is(err, contact.ErrMissingFields):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Name and email are required"})
		case errors.Is(err, contact.ErrInvalidEmail):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid email format"})
		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return
	}

	sub.Normalize(time.Now())

	outcome := h.pipeline.Dispatch(r.Context(), &sub)
	accepted := !outcome.Configured() || outcome.Delivered()
	h.stats.RecordOutcome(r.Context(), outcome, accepted)

	if !accepted {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to process submission. Please try again."})
		return
	}

	resp := map[string]interface{}{
		"success": true,
		"message": "Form submitted successfully",
	}
	if !outcome.Configured() && h.dev {
		resp["debug"] = "No integrations configured"
	}
	writeJSON(w, http.StatusOK, resp)
}
