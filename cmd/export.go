package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/sixpicks/internal/config"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Pick six photos of a month and save the collage into the library",
	Long: `Picks up to six random photos taken in a month, arranges them in a 2x3
collage and saves it into the photo library. For a folder library the
collage is copied into the SixPicks subdirectory; for PhotoPrism it is
uploaded and optionally added to an album.

Example:
  sixpicks export --month 2024-03
  sixpicks --library photoprism export --month 2024-03 --album "Six Picks"`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("month", "", "Month to pick from as YYYY-MM (default current month)")
	exportCmd.Flags().String("album", "", "PhotoPrism album title to add the collage to (overrides PHOTOPRISM_ALBUM)")
	exportCmd.Flags().Uint64("seed", 0, "Random seed for a reproducible pick (0 = random)")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if album := mustGetString(cmd, "album"); album != "" {
		if cfg.Library.Backend != config.LibraryPhotoPrism {
			return fmt.Errorf("--album requires the %s library", config.LibraryPhotoPrism)
		}
		cfg.PhotoPrism.Album = album
	}

	ctx, cancel := signalContext()
	defer cancel()

	svc, closeFn, err := openService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	sel, err := pickMonth(ctx, cmd, cfg, svc)
	if err != nil {
		return err
	}

	result, err := svc.Export(ctx, sel)
	if err != nil {
		return err
	}

	fmt.Printf("Collage with %d photo(s) saved to the library\n", len(sel.Picks))
	fmt.Printf("  Asset:   %s\n", result.AssetID)
	fmt.Printf("  File:    %s (%d bytes)\n", result.Path, result.Size)
	fmt.Printf("  Created: %s\n", result.CreatedAt.Format("2006-01-02 15:04:05"))
	if cfg.Library.Backend == config.LibraryPhotoPrism && cfg.PhotoPrism.Album != "" {
		fmt.Printf("  Album:   %s\n", cfg.PhotoPrism.Album)
	}
	return nil
}
