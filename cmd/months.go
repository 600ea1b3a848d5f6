package cmd

import (
	"fmt"
	"os"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/sixpicks/internal/constants"
	"github.com/kozaktomas/sixpicks/internal/monthrange"
)

var monthsCmd = &cobra.Command{
	Use:   "months",
	Short: "List the months a collage can be made for",
	Long: `Lists every selectable month, newest first: the current month and all
months of the previous years up to --years back.`,
	RunE: runMonths,
}

func init() {
	rootCmd.AddCommand(monthsCmd)

	monthsCmd.Flags().Int("years", constants.SelectableYears, "How many years back to list")
}

func runMonths(cmd *cobra.Command, args []string) error {
	years := mustGetInt(cmd, "years")
	if years < 0 {
		return fmt.Errorf("--years must not be negative, got %d", years)
	}

	months := monthrange.Selectable(time.Now(), years)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MONTH\tLABEL\tDAYS")
	fmt.Fprintln(w, "-----\t-----\t----")
	for _, m := range slices.Backward(months) {
		fmt.Fprintf(w, "%s\t%s\t%d\n", m.Key(), m.Label(), m.Days())
	}
	return w.Flush()
}
