package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kozaktomas/sixpicks/internal/config"
	"github.com/kozaktomas/sixpicks/internal/dump"
	"github.com/kozaktomas/sixpicks/internal/library"
	"github.com/kozaktomas/sixpicks/internal/photoprism"
)

// loadConfig loads the environment config and applies the root flags.
func loadConfig() *config.Config {
	cfg := config.Load()
	if libraryBackend != "" {
		cfg.Library.Backend = libraryBackend
	}
	return cfg
}

// openLibrary opens the configured photo library. The returned close
// function ends remote sessions and is safe to defer.
func openLibrary(ctx context.Context, cfg *config.Config) (library.Library, func(), error) {
	switch cfg.Library.Backend {
	case config.LibraryFolder:
		return library.NewFolder(cfg.Library.Dir), func() {}, nil

	case config.LibraryPhotoPrism:
		if cfg.PhotoPrism.URL == "" {
			return nil, nil, errors.New("PHOTOPRISM_URL environment variable is required")
		}
		pp, err := photoprism.NewPhotoPrismWithCapture(ctx, cfg.PhotoPrism.URL, cfg.PhotoPrism.Username, cfg.PhotoPrism.GetPassword(), captureDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to PhotoPrism: %w", err)
		}
		lib := library.NewPhotoPrism(pp, cfg.PhotoPrism.Album)
		closeFn := func() {
			logoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := lib.Close(logoutCtx); err != nil {
				fmt.Printf("Warning: failed to log out of PhotoPrism: %v\n", err)
			}
		}
		return lib, closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unknown library backend %q (expected %s or %s)",
			cfg.Library.Backend, config.LibraryFolder, config.LibraryPhotoPrism)
	}
}

// openService opens the library and wires it into a dump service.
func openService(ctx context.Context, cfg *config.Config) (*dump.Service, func(), error) {
	lib, closeFn, err := openLibrary(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	svc, err := dump.FromConfig(lib, cfg)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return svc, closeFn, nil
}
