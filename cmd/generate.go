package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/sixpicks/internal/config"
	"github.com/kozaktomas/sixpicks/internal/constants"
	"github.com/kozaktomas/sixpicks/internal/dump"
	"github.com/kozaktomas/sixpicks/internal/sampler"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Pick six photos of a month and write the collage to a file",
	Long: `Picks up to six random photos taken in a month, arranges them in a 2x3
collage and writes it as JPEG. Nothing is saved to the library; use the
export command for that.

Example:
  sixpicks generate                          # current month
  sixpicks generate --month 2024-03 --out march.jpg
  sixpicks generate --month 2024-03 --seed 42  # reproducible pick`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("month", "", "Month to pick from as YYYY-MM (default current month)")
	generateCmd.Flags().String("out", "", "Output file (default sixpicks-<month>.jpg)")
	generateCmd.Flags().Uint64("seed", 0, "Random seed for a reproducible pick (0 = random)")
}

// newLoadBar creates the progress bar shown while photos load.
func newLoadBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Loading photos"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// pickMonth resolves the --month and --seed flags and samples the month,
// showing a progress bar while photos load.
func pickMonth(ctx context.Context, cmd *cobra.Command, cfg *config.Config, svc *dump.Service) (*sampler.Selection, error) {
	month := svc.CurrentMonth()
	if key := mustGetString(cmd, "month"); key != "" {
		var err error
		month, err = svc.ParseMonth(key)
		if err != nil {
			return nil, err
		}
	}

	if seed := mustGetUint64(cmd, "seed"); seed != 0 {
		svc.Sampler.WithSeed(seed)
	}

	bar := newLoadBar(constants.MaxPicks)
	ctx = sampler.WithProgress(ctx, func(done, total int) {
		bar.ChangeMax(total)
		_ = bar.Add(1)
	})

	fmt.Printf("Picking photos for %s...\n", month.Label())
	sel, err := svc.GenerateMonth(ctx, month)
	_ = bar.Finish()
	fmt.Println()
	if err != nil {
		return nil, err
	}

	printPhotos(cfg, sel.Photos())
	fmt.Println()
	return sel, nil
}

// signalContext returns a context cancelled on Ctrl+C.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

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

	c, err := svc.Compose(sel)
	if err != nil {
		return err
	}
	data, err := c.EncodeBytes(svc.Exporter.Quality)
	if err != nil {
		return err
	}

	out := mustGetString(cmd, "out")
	if out == "" {
		out = "sixpicks-" + sel.Month.Key() + ".jpg"
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("failed to write collage: %w", err)
	}

	fmt.Printf("Collage with %d photo(s) written to %s (%d bytes)\n", len(sel.Picks), out, len(data))
	return nil
}
