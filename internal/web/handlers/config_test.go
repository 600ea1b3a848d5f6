package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/sixpicks/internal/config"
)

func TestConfigHandler_Get(t *testing.T) {
	cfg := config.Load()
	cfg.Library.Backend = config.LibraryFolder
	cfg.PhotoPrism.Domain = "https://photos.example.com"
	handler := NewConfigHandler(cfg)

	recorder := httptest.NewRecorder()
	handler.Get(recorder, httptest.NewRequest("GET", "/api/v1/config", nil))

	assertStatusCode(t, recorder, http.StatusOK)
	assertContentType(t, recorder, "application/json")

	var resp ConfigResponse
	parseJSONResponse(t, recorder, &resp)

	if resp.Library != config.LibraryFolder {
		t.Errorf("expected library 'folder', got '%s'", resp.Library)
	}
	if resp.Canvas.Width != 600 || resp.Canvas.Height != 900 {
		t.Errorf("expected 600x900 canvas, got %dx%d", resp.Canvas.Width, resp.Canvas.Height)
	}
	if resp.Grid.Columns != 2 || resp.Grid.Rows != 3 || resp.Grid.MaxCells != 6 {
		t.Errorf("unexpected grid %+v", resp.Grid)
	}
	if resp.MaxPicks != 6 {
		t.Errorf("expected max picks 6, got %d", resp.MaxPicks)
	}
	if resp.SelectableYears != 10 {
		t.Errorf("expected 10 selectable years, got %d", resp.SelectableYears)
	}
	if resp.PhotoPrismDomain != "" {
		t.Errorf("expected no PhotoPrism domain for folder library, got '%s'", resp.PhotoPrismDomain)
	}
}

func TestConfigHandler_Get_PhotoPrism(t *testing.T) {
	cfg := testConfig()
	cfg.Library.Backend = config.LibraryPhotoPrism
	cfg.PhotoPrism.Domain = "https://photos.example.com"
	cfg.PhotoPrism.Album = "Six Picks"
	handler := NewConfigHandler(cfg)

	recorder := httptest.NewRecorder()
	handler.Get(recorder, httptest.NewRequest("GET", "/api/v1/config", nil))

	var resp ConfigResponse
	parseJSONResponse(t, recorder, &resp)

	if resp.PhotoPrismDomain != "https://photos.example.com" {
		t.Errorf("expected PhotoPrism domain, got '%s'", resp.PhotoPrismDomain)
	}
	if resp.PhotoPrismAlbum != "Six Picks" {
		t.Errorf("expected album 'Six Picks', got '%s'", resp.PhotoPrismAlbum)
	}
}
