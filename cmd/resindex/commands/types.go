package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/resindex/internal/resource"
)

var typesOutput string

func init() {
	typesCmd.Flags().StringVarP(&typesOutput, "output", "o", outputTable, "Output format: table, json, yaml, toml")
	rootCmd.AddCommand(typesCmd)
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the resource types and their folders",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runTypesWithWriter(os.Stdout)
	},
}

// typeRow is one entry of the types command output.
type typeRow struct {
	Type        resource.Type `json:"type" yaml:"type" toml:"type"`
	Subfolder   string        `json:"subfolder" yaml:"subfolder" toml:"subfolder"`
	Recursive   bool          `json:"recursive" yaml:"recursive" toml:"recursive"`
	Extensions  []string      `json:"extensions" yaml:"extensions" toml:"extensions"`
	Description string        `json:"description" yaml:"description" toml:"description"`
}

type typesReport struct {
	Types []typeRow `json:"types" yaml:"types" toml:"types"`
}

// typeRows lists the scanned types in scan order.
func typeRows() []typeRow {
	table := resource.DefaultTypes()
	var rows []typeRow
	for _, t := range table.TopLevel() {
		info := table.Info(t)
		rows = append(rows, typeRow{
			Type:        t,
			Subfolder:   info.Subfolder,
			Recursive:   info.Recursive,
			Extensions:  table.Filters(t),
			Description: info.Description,
		})
	}
	return rows
}

func runTypesWithWriter(w io.Writer) error {
	if err := validOutput(typesOutput); err != nil {
		return err
	}
	rows := typeRows()
	if typesOutput != outputTable {
		return writeStructured(w, typesOutput, typesReport{Types: rows})
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, boldStyle.Sprint("TYPE\tSUBFOLDER\tRECURSIVE\tEXTENSIONS\tDESCRIPTION"))
	for _, r := range rows {
		recursive := "no"
		if r.Recursive {
			recursive = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			nameStyle.Sprint(r.Type), r.Subfolder, recursive, strings.Join(r.Extensions, " "), r.Description)
	}
	return tw.Flush()
}
