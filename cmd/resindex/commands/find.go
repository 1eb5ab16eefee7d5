package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/resindex/internal/errors"
	"github.com/thoreinstein/resindex/internal/logging"
	"github.com/thoreinstein/resindex/internal/resource"
)

var findOutput string

func init() {
	findCmd.Flags().StringVarP(&findOutput, "output", "o", outputTable, "Output format: table, json, yaml, toml")
	rootCmd.AddCommand(findCmd)
}

var findCmd = &cobra.Command{
	Use:   "find <path>",
	Short: "Show the resource stored for a file",
	Long: `Scan the locations and show the resource recorded for a file path,
including the attachments that share its name (preview images, exported
meshes and similar).`,
	Example: `  resindex find ~/Documents/OpenSCAD/templates/box.scad
  resindex find ./examples/Basics/logo.scad -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFindWithWriter(cmd.Context(), os.Stdout, args[0])
	},
}

// findReport is the structured output of the find command.
type findReport struct {
	Resource    resource.DiscoveredResource `json:"resource" yaml:"resource" toml:"resource"`
	Attachments []string                    `json:"attachments,omitempty" yaml:"attachments,omitempty" toml:"attachments,omitempty"`
}

// runFindWithWriter allows injecting a writer for testing.
func runFindWithWriter(ctx context.Context, w io.Writer, target string) error {
	if err := validOutput(findOutput); err != nil {
		return err
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return errors.NewUserError(err, "")
	}

	st, _, err := loadInventory(ctx)
	if err != nil {
		return err
	}

	r, ok := st.FindByPath(abs)
	if !ok {
		return errors.NewUserError(
			errors.Wrapf(errors.ErrNotFound, "no resource at %s", abs),
			"Run 'resindex scan' to list discovered resources",
		)
	}

	sc := resource.NewScanner(resource.WithLogger(logging.FromContext(ctx)))
	attachments, err := sc.Attachments(r)
	if err != nil {
		logging.FromContext(ctx).Warn("listing attachments failed", "path", r.Path, "error", err)
	}

	if findOutput != outputTable {
		return writeStructured(w, findOutput, findReport{Resource: r, Attachments: attachments})
	}

	fmt.Fprintf(w, "%s %s\n", boldStyle.Sprint("Name:    "), nameStyle.Sprint(r.Name))
	fmt.Fprintf(w, "%s %s\n", boldStyle.Sprint("Type:    "), r.Type)
	fmt.Fprintf(w, "%s %s\n", boldStyle.Sprint("Tier:    "), r.Tier.Title())
	if r.Category != "" {
		fmt.Fprintf(w, "%s %s\n", boldStyle.Sprint("Category:"), r.Category)
	}
	if lib, ok := r.LibraryName(); ok {
		fmt.Fprintf(w, "%s %s\n", boldStyle.Sprint("Library: "), lib)
	}
	fmt.Fprintf(w, "%s %s\n", boldStyle.Sprint("Location:"), r.LocationKey)
	fmt.Fprintf(w, "%s %d bytes, modified %s\n", boldStyle.Sprint("Size:    "), r.Size, r.LastModified.Format("2006-01-02 15:04"))
	for _, a := range attachments {
		fmt.Fprintf(w, "  %s %s\n", dimStyle.Sprint("+"), a)
	}
	return nil
}
