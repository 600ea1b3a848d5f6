package handlers

import (
	"net/http"
	"strings"
	"sync"

	"github.com/kozaktomas/sixpicks/internal/config"
	"github.com/kozaktomas/sixpicks/internal/dump"
	"github.com/kozaktomas/sixpicks/internal/monthrange"
	"github.com/kozaktomas/sixpicks/internal/sampler"
	"github.com/kozaktomas/sixpicks/internal/web/middleware"
)

// DumpsHandler handles photo dump generation and re-picking
type DumpsHandler struct {
	config *config.Config
}

// NewDumpsHandler creates a new dumps handler
func NewDumpsHandler(cfg *config.Config) *DumpsHandler {
	return &DumpsHandler{config: cfg}
}

// GenerateRequest represents a request to generate a dump
type GenerateRequest struct {
	Month string `json:"month"` // "2006-01", defaults to the current month
}

// ReplaceRequest represents a request to swap one photo of a dump
type ReplaceRequest struct {
	Month    string   `json:"month"`
	PhotoIDs []string `json:"photo_ids"`
	Slot     int      `json:"slot"`
	PhotoID  string   `json:"photo_id,omitempty"` // random replacement when empty
}

// PickResponse is one selected photo
type PickResponse struct {
	Slot  int           `json:"slot"`
	Photo photoResponse `json:"photo"`
}

// DumpResponse is a generated selection. PhotoIDs round-trips into the
// replace and collage endpoints.
type DumpResponse struct {
	Month    MonthResponse  `json:"month"`
	Picks    []PickResponse `json:"picks"`
	PhotoIDs []string       `json:"photo_ids"`
}

// ProgressEvent reports image loading progress over SSE
type ProgressEvent struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

func (h *DumpsHandler) newDumpResponse(sel *sampler.Selection) DumpResponse {
	resp := DumpResponse{
		Month:    newMonthResponse(sel.Month),
		Picks:    make([]PickResponse, 0, len(sel.Picks)),
		PhotoIDs: make([]string, 0, len(sel.Picks)),
	}
	for _, p := range sel.Picks {
		resp.Picks = append(resp.Picks, PickResponse{
			Slot:  p.Slot,
			Photo: newPhotoResponse(h.config, p.Photo),
		})
		resp.PhotoIDs = append(resp.PhotoIDs, p.Photo.ID)
	}
	return resp
}

// resolveMonth parses key, falling back to the current month when it is empty.
func resolveMonth(svc *dump.Service, key string) (monthrange.MonthRange, error) {
	if key == "" {
		return svc.CurrentMonth(), nil
	}
	return svc.ParseMonth(key)
}

func wantsEventStream(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}

// Generate samples up to six photos of a month. Clients that accept
// text/event-stream receive progress events before the result.
func (h *DumpsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	svc := middleware.MustGetService(r.Context(), w)
	if svc == nil {
		return
	}

	var req GenerateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	month, err := resolveMonth(svc, req.Month)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if wantsEventStream(r) {
		h.generateStream(w, r, svc, month)
		return
	}

	sel, err := svc.GenerateMonth(r.Context(), month)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, h.newDumpResponse(sel))
}

func (h *DumpsHandler) generateStream(w http.ResponseWriter, r *http.Request, svc *dump.Service, month monthrange.MonthRange) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// progress callbacks arrive from loader goroutines
	var mu sync.Mutex
	ctx := sampler.WithProgress(r.Context(), func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		sendSSEEvent(w, flusher, "progress", ProgressEvent{Done: done, Total: total})
	})

	sel, err := svc.GenerateMonth(ctx, month)

	mu.Lock()
	defer mu.Unlock()
	if err != nil {
		sendSSEEvent(w, flusher, "error", map[string]any{
			"error":  err.Error(),
			"status": statusForError(err),
		})
		return
	}
	sendSSEEvent(w, flusher, "dump", h.newDumpResponse(sel))
}

// Replace swaps one slot of a previously generated dump, either for a
// random photo of the month or for the requested one.
func (h *DumpsHandler) Replace(w http.ResponseWriter, r *http.Request) {
	svc := middleware.MustGetService(r.Context(), w)
	if svc == nil {
		return
	}

	var req ReplaceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if len(req.PhotoIDs) == 0 {
		respondError(w, http.StatusBadRequest, "photo_ids is required")
		return
	}

	month, err := resolveMonth(svc, req.Month)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sel, err := svc.Restore(r.Context(), month, req.PhotoIDs)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	if req.PhotoID != "" {
		_, err = svc.Choose(r.Context(), sel, req.Slot, req.PhotoID)
	} else {
		_, err = svc.Replace(r.Context(), sel, req.Slot)
	}
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, h.newDumpResponse(sel))
}
