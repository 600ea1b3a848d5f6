package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed collage.yaml
var collageYAML []byte

// Library backends selectable via SIXPICKS_LIBRARY.
const (
	LibraryFolder     = "folder"
	LibraryPhotoPrism = "photoprism"
)

type Config struct {
	Library    LibraryConfig
	PhotoPrism PhotoPrismConfig
	Sampler    SamplerConfig
	Web        WebConfig
	Collage    CollageConfig
}

type LibraryConfig struct {
	Backend string // "folder" (default) or "photoprism"
	Dir     string // root directory of the folder library
	TempDir string // where encoded collages are written before export (defaults to os.TempDir())
}

type PhotoPrismConfig struct {
	URL      string
	Username string
	Password string
	Domain   string // public domain for generating photo links (e.g., https://photos.example.com)
	Album    string // album title exported collages are added to (optional)
}

// GetPassword returns the configured PhotoPrism password.
func (c *PhotoPrismConfig) GetPassword() string {
	return c.Password
}

// BrowseURL returns the PhotoPrism library link for a photo UID.
// Returns empty string if Domain is not set
func (c *PhotoPrismConfig) BrowseURL(uid string) string {
	if c.Domain == "" {
		return ""
	}
	return strings.TrimRight(c.Domain, "/") + "/library/browse?view=cards&order=oldest&q=uid:" + uid
}

// PhotoURL returns an OSC 8 hyperlink for terminal emulators (iTerm2, etc.)
// Displays the UID but makes it clickable to open the photo in PhotoPrism
// Returns empty string if Domain is not set
func (c *PhotoPrismConfig) PhotoURL(uid string) string {
	url := c.BrowseURL(uid)
	if url == "" {
		return ""
	}
	// OSC 8 hyperlink format: \e]8;;URL\e\\TEXT\e]8;;\e\\
	return "\x1b]8;;" + url + "\x1b\\" + uid + "\x1b]8;;\x1b\\"
}

type SamplerConfig struct {
	Concurrency int // parallel image loads (default 6)
}

type WebConfig struct {
	Port int    // defaults to 8080
	Host string // defaults to 0.0.0.0
}

// CollageConfig is the embedded collage template.
type CollageConfig struct {
	Canvas struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"canvas"`
	Grid struct {
		Columns  int `yaml:"columns"`
		Rows     int `yaml:"rows"`
		MaxCells int `yaml:"max_cells"`
	} `yaml:"grid"`
	Background string  `yaml:"background"`
	Quality    float64 `yaml:"quality"`
	Load       struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"load"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	var tmpl CollageConfig
	if err := yaml.Unmarshal(collageYAML, &tmpl); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded collage.yaml: " + err.Error())
	}

	return &Config{
		Library: LibraryConfig{
			Backend: envString("SIXPICKS_LIBRARY", LibraryFolder),
			Dir:     envString("SIXPICKS_LIBRARY_DIR", "."),
			TempDir: os.Getenv("SIXPICKS_TEMP_DIR"),
		},
		PhotoPrism: PhotoPrismConfig{
			URL:      os.Getenv("PHOTOPRISM_URL"),
			Username: os.Getenv("PHOTOPRISM_USERNAME"),
			Password: os.Getenv("PHOTOPRISM_PASSWORD"),
			Domain:   os.Getenv("PHOTOPRISM_DOMAIN"),
			Album:    os.Getenv("PHOTOPRISM_ALBUM"),
		},
		Sampler: SamplerConfig{
			Concurrency: envInt("SAMPLER_CONCURRENCY", 6),
		},
		Web: WebConfig{
			Port: envInt("WEB_PORT", 8080),
			Host: envString("WEB_HOST", "0.0.0.0"),
		},
		Collage: tmpl,
	}
}
