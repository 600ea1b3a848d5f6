package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	captureDir     string
	libraryBackend string
)

var rootCmd = &cobra.Command{
	Use:   "sixpicks",
	Short: "Turn a month of photos into a six photo collage",
	Long: `SixPicks picks six random photos taken in a calendar month, arranges
them in a 2x3 collage and saves the result back into your photo library.

The library is either a local folder (SIXPICKS_LIBRARY_DIR) or a PhotoPrism
instance (PHOTOPRISM_URL, PHOTOPRISM_USERNAME, PHOTOPRISM_PASSWORD).`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&captureDir, "capture", "", "Directory to save PhotoPrism API responses for testing")
	rootCmd.PersistentFlags().StringVar(&libraryBackend, "library", "", "Photo library backend: folder or photoprism (overrides SIXPICKS_LIBRARY)")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
