package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/resindex/internal/editor"
	"github.com/thoreinstein/resindex/internal/errors"
	"github.com/thoreinstein/resindex/internal/resource"
)

var (
	pickType string
	pickEdit bool
)

func init() {
	pickCmd.Flags().StringVarP(&pickType, "type", "t", "", "Only offer resources of this type")
	pickCmd.Flags().BoolVarP(&pickEdit, "edit", "e", false, "Open the selected resource in $EDITOR")
	rootCmd.AddCommand(pickCmd)
}

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Interactively choose a resource and print its path",
	Long: `Scan the locations and open a fuzzy finder over the discovered
resources. The path of the selected resource is printed, so the command
composes with other tools:

  openscad "$(resindex pick --type templates)"

With --edit the selection is opened in $EDITOR (or $VISUAL) instead.
Pressing Esc or Ctrl-C prints nothing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runPickWithWriter(cmd.Context(), os.Stdout, cmd.ErrOrStderr())
	},
}

// openEditor opens a path in the user's editor. Tests replace it.
var openEditor = editor.Open

// finder selects an index from resources. Tests replace it.
var finder = func(rs []resource.DiscoveredResource) (int, error) {
	return fuzzyfinder.Find(
		rs,
		func(i int) string {
			return fmt.Sprintf("%s: %s (%s)", rs[i].Type, rs[i].Name, rs[i].Tier)
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return pickPreview(rs[i])
		}),
	)
}

func pickPreview(r resource.DiscoveredResource) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name:     %s\n", r.Name)
	fmt.Fprintf(&b, "Type:     %s\n", r.Type)
	fmt.Fprintf(&b, "Tier:     %s\n", r.Tier.Title())
	if r.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", r.Category)
	}
	fmt.Fprintf(&b, "Location: %s\n\n%s", r.LocationKey, r.Path)
	return b.String()
}

// runPickWithWriter allows injecting writers for testing.
func runPickWithWriter(ctx context.Context, w, errw io.Writer) error {
	filter := scanFilter{}
	if pickType != "" {
		t, err := resource.ParseType(pickType)
		if err != nil {
			return errors.NewUserError(err, "Run 'resindex types' to see valid types")
		}
		filter.typ, filter.hasType = t, true
	}

	st, sum, err := loadInventory(ctx)
	if err != nil {
		return err
	}
	reportScanErrors(errw, sum)

	rs := filter.apply(st)
	if len(rs) == 0 {
		fmt.Fprintln(errw, "No resources found.")
		return nil
	}

	idx, err := finder(rs)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		return errors.Wrap(err, "interactive pick failed")
	}

	if pickEdit {
		return openEditor(ctx, rs[idx].Path)
	}
	fmt.Fprintln(w, rs[idx].Path)
	return nil
}
