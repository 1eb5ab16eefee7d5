package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/resindex/internal/logging"
	"github.com/thoreinstein/resindex/internal/tree"
)

var (
	treeDepth int
	treePaths bool
)

func init() {
	treeCmd.Flags().IntVarP(&treeDepth, "depth", "d", 0, "Limit the printed depth (0 prints everything)")
	treeCmd.Flags().BoolVar(&treePaths, "paths", false, "Show the full path of each resource")
	rootCmd.AddCommand(treeCmd)
}

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show discovered resources as a tree",
	Long: `Show discovered resources grouped by tier, then by location or library.

Library resources are grouped under their library name regardless of the
location they came from. Groups and resources are ordered case-insensitively.`,
	Example: `  resindex tree
  resindex tree --depth 2
  resindex tree --paths --location user=./resources`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runTreeWithWriter(cmd.Context(), os.Stdout, cmd.ErrOrStderr())
	},
}

// runTreeWithWriter allows injecting writers for testing.
func runTreeWithWriter(ctx context.Context, w, errw io.Writer) error {
	st, sum, err := loadInventory(ctx)
	if err != nil {
		return err
	}
	reportScanErrors(errw, sum)

	ix := tree.New(st, tree.WithLogger(logging.FromContext(ctx)))
	defer ix.Close()

	if ix.State() == tree.StateEmpty {
		fmt.Fprintln(w, "No resources found.")
		return nil
	}

	ix.Walk(func(n tree.Node, depth int) bool {
		if n.Kind == tree.KindRoot {
			return true
		}
		indent := strings.Repeat("  ", depth-1)
		switch n.Kind {
		case tree.KindTier:
			fmt.Fprintf(w, "%s%s\n", indent, headerStyle.Sprint(n.Label))
		case tree.KindResource:
			line := indent + nameStyle.Sprint(n.Label)
			if n.Resource.Category != "" {
				line += " " + dimStyle.Sprintf("[%s]", n.Resource.Category)
			}
			if treePaths {
				line += "  " + dimStyle.Sprint(n.Resource.Path)
			}
			fmt.Fprintln(w, line)
		default:
			fmt.Fprintf(w, "%s%s (%d)\n", indent, boldStyle.Sprint(n.Label), len(n.Children))
		}
		return treeDepth <= 0 || depth < treeDepth
	})

	fmt.Fprintf(w, "\n%d resources\n", ix.LeafCount())
	return nil
}
