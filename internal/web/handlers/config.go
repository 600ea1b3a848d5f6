package handlers

import (
	"net/http"

	"github.com/kozaktomas/sixpicks/internal/config"
	"github.com/kozaktomas/sixpicks/internal/constants"
)

// ConfigHandler handles configuration endpoints
type ConfigHandler struct {
	config *config.Config
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{
		config: cfg,
	}
}

// ConfigResponse represents the configuration response
type ConfigResponse struct {
	Library          string   `json:"library"`
	Canvas           SizeInfo `json:"canvas"`
	Grid             GridInfo `json:"grid"`
	Load             SizeInfo `json:"load"`
	Background       string   `json:"background"`
	Quality          float64  `json:"quality"`
	MaxPicks         int      `json:"max_picks"`
	SelectableYears  int      `json:"selectable_years"`
	PhotoPrismDomain string   `json:"photoprism_domain,omitempty"`
	PhotoPrismAlbum  string   `json:"photoprism_album,omitempty"`
}

// SizeInfo is a width and height in pixels
type SizeInfo struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GridInfo describes the collage grid
type GridInfo struct {
	Columns  int `json:"columns"`
	Rows     int `json:"rows"`
	MaxCells int `json:"max_cells"`
}

// Get returns the collage template and library settings
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	tmpl := h.config.Collage

	response := ConfigResponse{
		Library:         h.config.Library.Backend,
		Canvas:          SizeInfo{Width: tmpl.Canvas.Width, Height: tmpl.Canvas.Height},
		Grid:            GridInfo{Columns: tmpl.Grid.Columns, Rows: tmpl.Grid.Rows, MaxCells: tmpl.Grid.MaxCells},
		Load:            SizeInfo{Width: tmpl.Load.Width, Height: tmpl.Load.Height},
		Background:      tmpl.Background,
		Quality:         tmpl.Quality,
		MaxPicks:        constants.MaxPicks,
		SelectableYears: constants.SelectableYears,
	}
	if h.config.Library.Backend == config.LibraryPhotoPrism {
		response.PhotoPrismDomain = h.config.PhotoPrism.Domain
		response.PhotoPrismAlbum = h.config.PhotoPrism.Album
	}

	respondJSON(w, http.StatusOK, response)
}
