package root

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kynaruniverse/Unearth/internal/engine"
	"github.com/kynaruniverse/Unearth/internal/ui"
)

func newListCmd(a *app) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tracked items with their likeliest locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := a.openReadService(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			items := svc.Items()
			if len(items) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No items yet. Start with: unearth add <name>"))
				return nil
			}

			fmt.Fprintln(out, ui.Heading(ui.IconItem, fmt.Sprintf("Items (%d)", len(items))))
			for _, it := range items {
				line := fmt.Sprintf("- %s %s", ui.Key.Render(it.Name), ui.Muted.Render(shortID(it.ID)))
				if it.LostCount > 0 {
					line += " " + ui.Warn.Render(fmt.Sprintf("%s lost %d", ui.IconLost, it.LostCount))
				}
				fmt.Fprintln(out, line)

				var preds []string
				for _, lc := range engine.TopLocations(it, top) {
					preds = append(preds, fmt.Sprintf("%s (%d)", lc.Location, lc.Count))
				}
				if len(preds) == 0 {
					fmt.Fprintln(out, "    "+ui.Muted.Render("no logs yet"))
					continue
				}
				fmt.Fprintln(out, "    "+ui.IconPin+" "+strings.Join(preds, ", "))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "top", 3, "Predictions shown per item")
	return cmd
}
