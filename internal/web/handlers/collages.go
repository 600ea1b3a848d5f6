package handlers

import (
	"net/http"
	"strconv"

	"github.com/kozaktomas/sixpicks/internal/config"
	"github.com/kozaktomas/sixpicks/internal/web/middleware"
)

// CollagesHandler handles collage rendering and export
type CollagesHandler struct {
	config *config.Config
}

// NewCollagesHandler creates a new collages handler
func NewCollagesHandler(cfg *config.Config) *CollagesHandler {
	return &CollagesHandler{config: cfg}
}

// CollageRequest represents a request to render or export a dump
type CollageRequest struct {
	Month    string   `json:"month"`
	PhotoIDs []string `json:"photo_ids"`
	Export   bool     `json:"export"`
}

// Create renders the selected photos as a collage. With export set the
// collage is saved into the library, otherwise the JPEG is returned.
func (h *CollagesHandler) Create(w http.ResponseWriter, r *http.Request) {
	svc := middleware.MustGetService(r.Context(), w)
	if svc == nil {
		return
	}

	var req CollageRequest
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

	if req.Export {
		result, err := svc.Export(r.Context(), sel)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusCreated, result)
		return
	}

	c, err := svc.Compose(sel)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	data, err := c.EncodeBytes(svc.Exporter.Quality)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", `inline; filename="sixpicks-`+month.Key()+`.jpg"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
