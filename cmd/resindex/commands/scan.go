package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/resindex/internal/errors"
	"github.com/thoreinstein/resindex/internal/inventory"
	"github.com/thoreinstein/resindex/internal/resource"
	"github.com/thoreinstein/resindex/internal/store"
	"github.com/thoreinstein/resindex/pkg/docreader"
)

var (
	scanType   string
	scanTier   string
	scanOutput string
	scanOut    string
)

func init() {
	scanCmd.Flags().StringVarP(&scanType, "type", "t", "", "Only list resources of this type (see 'resindex types')")
	scanCmd.Flags().StringVar(&scanTier, "tier", "", "Only list resources of this tier: installation, machine, user")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", outputTable, "Output format: table, json, yaml, toml")
	scanCmd.Flags().StringVar(&scanOut, "out", "", "Also write a report file (.json, .yaml or .toml)")
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan locations and list discovered resources",
	Long: `Scan every enabled, existing location and list the resources found.

Files are classified by the folder they live in (templates/, fonts/,
color-schemes/editor/, libraries/<name>/, ...) and kept only when their
extension belongs to that type. Locations that cannot be read are reported
as warnings and do not stop the scan.`,
	Example: `  resindex scan
  resindex scan --type templates --tier user
  resindex scan -o yaml --out report.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runScanWithWriter(cmd.Context(), os.Stdout, cmd.ErrOrStderr())
	},
}

// scanReport is the structured output of the scan command.
type scanReport struct {
	Total     int                           `json:"total" yaml:"total" toml:"total"`
	Resources []resource.DiscoveredResource `json:"resources" yaml:"resources" toml:"resources"`
	Locations []inventory.LocationResult    `json:"locations" yaml:"locations" toml:"locations"`
	Errors    []string                      `json:"errors,omitempty" yaml:"errors,omitempty" toml:"errors,omitempty"`
}

// scanFilter selects the listed resources.
type scanFilter struct {
	typ     resource.Type
	hasType bool
	tier    resource.Tier
	hasTier bool
}

func parseScanFilter() (scanFilter, error) {
	var f scanFilter
	if scanType != "" {
		t, err := resource.ParseType(scanType)
		if err != nil {
			return f, errors.NewUserError(err, "Run 'resindex types' to see valid types")
		}
		f.typ, f.hasType = t, true
	}
	if scanTier != "" {
		tier, err := resource.ParseTier(scanTier)
		if err != nil {
			return f, errors.NewUserError(err, "Valid tiers: installation, machine, user")
		}
		f.tier, f.hasTier = tier, true
	}
	return f, nil
}

// apply returns the stored resources matching f. Container types such as
// color-schemes include their sub-types.
func (f scanFilter) apply(st *store.Store) []resource.DiscoveredResource {
	if !f.hasType {
		all := st.AllResources()
		if !f.hasTier {
			return all
		}
		var out []resource.DiscoveredResource
		for _, r := range all {
			if r.Tier == f.tier {
				out = append(out, r)
			}
		}
		return out
	}

	types := []resource.Type{f.typ}
	if table := resource.DefaultTypes(); table.IsContainer(f.typ) {
		types = table.Info(f.typ).SubTypes
	}
	var out []resource.DiscoveredResource
	for _, t := range types {
		if f.hasTier {
			out = append(out, st.ResourcesOfTypeAndTier(t, f.tier)...)
		} else {
			out = append(out, st.ResourcesOfType(t)...)
		}
	}
	return out
}

// runScanWithWriter allows injecting writers for testing.
func runScanWithWriter(ctx context.Context, w, errw io.Writer) error {
	if err := validOutput(scanOutput); err != nil {
		return err
	}
	filter, err := parseScanFilter()
	if err != nil {
		return err
	}

	st, sum, err := loadInventory(ctx)
	if err != nil {
		return err
	}
	reportScanErrors(errw, sum)

	rs := filter.apply(st)
	report := scanReport{Total: len(rs), Resources: rs, Locations: sum.Locations}
	for _, e := range sum.Errors {
		report.Errors = append(report.Errors, e.Error())
	}

	if scanOut != "" {
		if err := docreader.Write(scanOut, report); err != nil {
			return errors.NewUserError(err, "The report file must end in .json, .yaml, .yml or .toml")
		}
	}

	if scanOutput != outputTable {
		return writeStructured(w, scanOutput, report)
	}
	return outputResourcesTabular(w, rs, sum)
}

// outputResourcesTabular prints resources grouped by type.
func outputResourcesTabular(w io.Writer, rs []resource.DiscoveredResource, sum *inventory.Summary) error {
	if len(rs) == 0 {
		fmt.Fprintln(w, "No resources found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, boldStyle.Sprint("NAME\tTYPE\tTIER\tCATEGORY\tPATH"))
	for _, r := range rs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			nameStyle.Sprint(truncate(r.Name, 40)),
			r.Type,
			r.Tier,
			r.Category,
			dimStyle.Sprint(r.Path),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	scanned := 0
	for _, l := range sum.Locations {
		if !l.Skipped {
			scanned++
		}
	}
	fmt.Fprintf(w, "\n%d resources from %d locations\n", len(rs), scanned)
	return nil
}
