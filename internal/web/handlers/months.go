package handlers

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/sixpicks/internal/config"
	"github.com/kozaktomas/sixpicks/internal/monthrange"
	"github.com/kozaktomas/sixpicks/internal/web/middleware"
)

// MonthsHandler handles month listing endpoints
type MonthsHandler struct {
	config *config.Config
}

// NewMonthsHandler creates a new months handler
func NewMonthsHandler(cfg *config.Config) *MonthsHandler {
	return &MonthsHandler{config: cfg}
}

// MonthResponse is one selectable month
type MonthResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Days  int    `json:"days"`
}

// MonthPhotosResponse lists the photos of one month
type MonthPhotosResponse struct {
	Month  MonthResponse   `json:"month"`
	Count  int             `json:"count"`
	Photos []photoResponse `json:"photos"`
}

func newMonthResponse(m monthrange.MonthRange) MonthResponse {
	return MonthResponse{
		Key:   m.Key(),
		Label: m.Label(),
		Year:  m.Start.Year(),
		Month: int(m.Start.Month()),
		Days:  m.Days(),
	}
}

// List returns the selectable months, newest first
func (h *MonthsHandler) List(w http.ResponseWriter, r *http.Request) {
	svc := middleware.MustGetService(r.Context(), w)
	if svc == nil {
		return
	}

	months := svc.Months()
	result := make([]MonthResponse, 0, len(months))
	for _, m := range slices.Backward(months) {
		result = append(result, newMonthResponse(m))
	}

	respondJSON(w, http.StatusOK, result)
}

// Photos returns every photo of the month in the URL, oldest first
func (h *MonthsHandler) Photos(w http.ResponseWriter, r *http.Request) {
	svc := middleware.MustGetService(r.Context(), w)
	if svc == nil {
		return
	}

	month, err := svc.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	photos, err := svc.Photos(r.Context(), month)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	result := MonthPhotosResponse{
		Month:  newMonthResponse(month),
		Count:  len(photos),
		Photos: make([]photoResponse, 0, len(photos)),
	}
	for _, p := range photos {
		result.Photos = append(result.Photos, newPhotoResponse(h.config, p))
	}

	respondJSON(w, http.StatusOK, result)
}
