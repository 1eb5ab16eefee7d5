package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/resindex/internal/doctor"
	"github.com/thoreinstein/resindex/internal/errors"
	"github.com/thoreinstein/resindex/internal/logging"
)

var (
	checkOutput  string
	checkVerbose bool
	checkFailOn  string
)

func init() {
	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", outputTable, "Output format: table, json, yaml, toml")
	checkCmd.Flags().BoolVar(&checkVerbose, "all", false, "Show every check, including passed ones")
	checkCmd.Flags().StringVar(&checkFailOn, "fail-on", "error", "Lowest severity that fails the command: info, warning, error")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Diagnose locations and resource documents",
	Long: `Check that every resolved location can be read, then parse every JSON
resource (color schemes and similar) and report syntax errors with their
line and column. Comments and trailing commas are accepted.

Exit codes:
  0 - Nothing at or above the --fail-on severity
  1 - At least one result at or above the --fail-on severity`,
	Example: `  resindex check
  resindex check --all
  resindex check -o json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCheckWithWriter(cmd.Context(), os.Stdout)
	},
}

// errCheckFailed signals results at or above the --fail-on severity.
var errCheckFailed = errors.New("check found problems")

// runCheckWithWriter allows injecting a writer for testing.
func runCheckWithWriter(ctx context.Context, w io.Writer) error {
	if err := validOutput(checkOutput); err != nil {
		return err
	}
	failOn, err := doctor.ParseSeverity(checkFailOn)
	if err != nil {
		return errors.NewUserError(err, "Valid severities: info, warning, error")
	}

	locs, err := resolveLocations(logging.FromContext(ctx))
	if err != nil {
		return errors.NewUserError(err, "")
	}
	st, _, err := loadInventory(ctx)
	if err != nil {
		return err
	}

	runner := doctor.NewRunner()
	runner.AddChecks(doctor.LocationChecks(locs)...)
	runner.AddChecks(doctor.DocumentChecks(st.AllResources())...)
	report := runner.Run()

	if checkOutput != outputTable {
		if err := writeStructured(w, checkOutput, report); err != nil {
			return err
		}
	} else {
		outputCheckText(w, report)
	}

	if failOn > doctor.SeverityPass && report.Worst() >= failOn {
		return errors.NewExitError(errCheckFailed, errors.ExitUser)
	}
	return nil
}

func outputCheckText(w io.Writer, report *doctor.Report) {
	shown := report.AtLeast(doctor.SeverityWarning)
	if checkVerbose {
		shown = report.Results
	}

	for _, result := range shown {
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)
		if result.FixHint != "" {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}
	if len(shown) > 0 {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return nameStyle.Sprint("✓")
	case doctor.SeverityInfo:
		return dimStyle.Sprint("ℹ")
	case doctor.SeverityWarning:
		return warnStyle.Sprint("⚠")
	case doctor.SeverityError:
		return errorStyle.Sprint("✗")
	default:
		return "?"
	}
}
