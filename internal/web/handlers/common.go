package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/kozaktomas/sixpicks/internal/collage"
	"github.com/kozaktomas/sixpicks/internal/config"
	"github.com/kozaktomas/sixpicks/internal/constants"
	"github.com/kozaktomas/sixpicks/internal/dump"
	"github.com/kozaktomas/sixpicks/internal/library"
	"github.com/kozaktomas/sixpicks/internal/monthrange"
	"github.com/kozaktomas/sixpicks/internal/sampler"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusForError maps domain errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, library.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, dump.ErrNoPhotosFound),
		errors.Is(err, sampler.ErrPhotoNotInMonth):
		return http.StatusNotFound
	case errors.Is(err, monthrange.ErrFutureMonth),
		errors.Is(err, monthrange.ErrMonthTooOld),
		errors.Is(err, sampler.ErrInvalidSlot),
		errors.Is(err, sampler.ErrTooManyPhotos):
		return http.StatusBadRequest
	case errors.Is(err, collage.ErrEmptySelection),
		errors.Is(err, sampler.ErrAlreadySelected),
		errors.Is(err, sampler.ErrNoCandidates),
		errors.Is(err, library.ErrLoadFailed),
		errors.Is(err, library.ErrTooManyResults):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// respondServiceError logs server side failures and sends the mapped status.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, sanitizeForLog(r.URL.Path), err)
	}
	respondError(w, status, err.Error())
}

// decodeJSON reads a size limited JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// sendSSEEvent writes one server-sent event and flushes it.
func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, eventType string, data any) {
	jsonData, _ := json.Marshal(data)
	_, _ = io.WriteString(w, "event: "+eventType+"\n")
	_, _ = io.WriteString(w, "data: ")
	_, _ = io.Copy(w, bytes.NewReader(jsonData))
	_, _ = io.WriteString(w, "\n\n")
	flusher.Flush()
}

// photoResponse is a photo record as returned by the API.
type photoResponse struct {
	library.Photo
	URL string `json:"url,omitempty"`
}

func newPhotoResponse(cfg *config.Config, p library.Photo) photoResponse {
	resp := photoResponse{Photo: p}
	if cfg.Library.Backend == config.LibraryPhotoPrism {
		resp.URL = cfg.PhotoPrism.BrowseURL(p.ID)
	}
	return resp
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
