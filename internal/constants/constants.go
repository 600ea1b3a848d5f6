// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Sampling constants
const (
	// MaxPicks is the maximum number of photos chosen for one month
	MaxPicks = 6

	// LoadWidth and LoadHeight are the target size for sampled photo loads
	LoadWidth  = 300
	LoadHeight = 300

	// DefaultConcurrency is the default number of parallel image loads
	DefaultConcurrency = 6
)

// Month picker constants
const (
	// SelectableYears is how many years back the month picker reaches
	SelectableYears = 10
)

// Collage constants
const (
	// CollageWidth and CollageHeight are the fixed canvas size in pixels
	CollageWidth  = 600
	CollageHeight = 900

	// CollageColumns and CollageRows describe the fixed grid
	CollageColumns = 2
	CollageRows    = 3

	// MaxQuality is the JPEG quality factor for exported collages
	MaxQuality = 1.0
)

// PhotoPrism constants
const (
	// DefaultPageSize is the default number of items to fetch per API page
	DefaultPageSize = 1000

	// MaxPhotosPerMonth is the most photos a single month may hold before listing it fails
	MaxPhotosPerMonth = 10000
)

// Web constants
const (
	// MaxRequestBodySize bounds JSON request bodies (1MB)
	MaxRequestBodySize = 1 << 20
)
