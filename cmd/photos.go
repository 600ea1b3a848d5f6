package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/sixpicks/internal/config"
	"github.com/kozaktomas/sixpicks/internal/library"
)

var photosCmd = &cobra.Command{
	Use:   "photos <month>",
	Short: "List the photos taken in a month",
	Long: `Lists every photo of the library created in the given month (YYYY-MM),
oldest first. These are the candidates a collage is picked from.

Example:
  sixpicks photos 2024-03
  sixpicks --library photoprism photos 2024-03`,
	Args: cobra.ExactArgs(1),
	RunE: runPhotos,
}

func init() {
	rootCmd.AddCommand(photosCmd)
}

func runPhotos(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	ctx := context.Background()

	svc, closeFn, err := openService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	month, err := svc.ParseMonth(args[0])
	if err != nil {
		return err
	}

	photos, err := svc.Photos(ctx, month)
	if err != nil {
		return err
	}

	if len(photos) == 0 {
		fmt.Printf("No photos found for %s.\n", month.Label())
		return nil
	}

	fmt.Printf("%s: %d photo(s)\n\n", month.Label(), len(photos))
	printPhotos(cfg, photos)
	return nil
}

// printPhotos prints a photo table. PhotoPrism IDs become terminal links
// when PHOTOPRISM_DOMAIN is set.
func printPhotos(cfg *config.Config, photos []library.Photo) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tSIZE\tNAME")
	fmt.Fprintln(w, "--\t-------\t----\t----")
	for _, p := range photos {
		id := p.ID
		if cfg.Library.Backend == config.LibraryPhotoPrism {
			if link := cfg.PhotoPrism.PhotoURL(p.ID); link != "" {
				id = link
			}
		}
		size := "-"
		if p.Width > 0 && p.Height > 0 {
			size = fmt.Sprintf("%dx%d", p.Width, p.Height)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", id, p.CreatedAt.Format("2006-01-02 15:04"), size, p.Name)
	}
	w.Flush()
}
