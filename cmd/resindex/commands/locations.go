package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/resindex/internal/location"
	"github.com/thoreinstein/resindex/internal/logging"
)

var locationsOutput string

func init() {
	locationsCmd.Flags().StringVarP(&locationsOutput, "output", "o", outputTable, "Output format: table, json, yaml, toml")
	rootCmd.AddCommand(locationsCmd)
}

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "List resolved resource locations",
	Long: `List every candidate resource location, grouped by tier in precedence
order: installation, machine, user.

Each location shows whether it is enabled and whether the folder exists.
Only enabled, existing locations are scanned.`,
	Example: `  resindex locations
  resindex locations --platform darwin
  resindex locations -o json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runLocationsWithWriter(cmd.Context(), os.Stdout)
	},
}

// locationsReport is the structured output of the locations command.
type locationsReport struct {
	Locations []location.Location `json:"locations" yaml:"locations" toml:"locations"`
}

// runLocationsWithWriter allows injecting a writer for testing.
func runLocationsWithWriter(ctx context.Context, w io.Writer) error {
	if err := validOutput(locationsOutput); err != nil {
		return err
	}

	locs, err := resolveLocations(logging.FromContext(ctx))
	if err != nil {
		return err
	}

	if locationsOutput != outputTable {
		return writeStructured(w, locationsOutput, locationsReport{Locations: locs})
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, boldStyle.Sprint("TIER\tSOURCE\tSTATUS\tLOCATION"))
	for _, l := range locs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.Tier.Title(), l.Source, locationStatus(l), l.DisplayName)
	}
	return tw.Flush()
}

// locationStatus summarizes whether a location will be scanned.
func locationStatus(l location.Location) string {
	switch {
	case !l.Enabled:
		return dimStyle.Sprint("disabled")
	case !l.Exists:
		return dimStyle.Sprint("missing")
	default:
		return nameStyle.Sprint("ok")
	}
}
