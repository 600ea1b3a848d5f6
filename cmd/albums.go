package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/sixpicks/internal/library"
	"github.com/kozaktomas/sixpicks/internal/photoprism"
)

var albumsCmd = &cobra.Command{
	Use:   "albums",
	Short: "List PhotoPrism albums",
	Long: `Retrieves and displays albums from your PhotoPrism instance. The album
exported collages go to (PHOTOPRISM_ALBUM) is marked with an asterisk.`,
	RunE: runAlbums,
}

func init() {
	rootCmd.AddCommand(albumsCmd)

	albumsCmd.Flags().Int("count", 100, "Number of albums to retrieve")
	albumsCmd.Flags().Int("offset", 0, "Offset for pagination")
	albumsCmd.Flags().String("query", "", "Search query to filter albums")
}

func runAlbums(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	count := mustGetInt(cmd, "count")
	offset := mustGetInt(cmd, "offset")
	query := mustGetString(cmd, "query")

	if cfg.PhotoPrism.URL == "" {
		return errors.New("PHOTOPRISM_URL environment variable is required")
	}

	ctx := context.Background()
	pp, err := photoprism.NewPhotoPrismWithCapture(ctx, cfg.PhotoPrism.URL, cfg.PhotoPrism.Username, cfg.PhotoPrism.GetPassword(), captureDir)
	if err != nil {
		return fmt.Errorf("failed to connect to PhotoPrism: %w", err)
	}
	defer pp.Logout(ctx)

	albums, err := pp.GetAlbums(ctx, count, offset, query, "album")
	if err != nil {
		return fmt.Errorf("failed to get albums: %w", err)
	}

	if len(albums) == 0 {
		fmt.Println("No albums found.")
		return nil
	}

	target := library.NormalizeAlbumTitle(cfg.PhotoPrism.Album)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "UID\tTITLE\tPHOTOS\t")
	fmt.Fprintln(w, "---\t-----\t------\t")

	for i := range albums {
		mark := ""
		if target != "" && library.NormalizeAlbumTitle(albums[i].Title) == target {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", albums[i].UID, albums[i].Title, albums[i].PhotoCount, mark)
	}

	return w.Flush()
}
