package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kynaruniverse/Unearth/internal/engine"
	"github.com/kynaruniverse/Unearth/internal/ui"
)

func newShowCmd(a *app) *cobra.Command {
	var recent int

	cmd := &cobra.Command{
		Use:   "show <item>",
		Short: "Show an item's predictions and recent history",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("exactly one item (name or id) is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := a.openReadService(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			it, err := findItem(svc, args[0])
			if err != nil {
				return err
			}
			now := svc.Now()
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, ui.Heading(ui.IconItem, it.Name))
			fmt.Fprintln(out, ui.LabelValue("ID", it.ID))
			fmt.Fprintln(out, ui.LabelValue("Tracked since", ui.FormatRelative(it.CreatedAt, now)))
			fmt.Fprintln(out, ui.LabelValue("Times lost", it.LostCount))
			if loc, ok := engine.LastKnownLocation(it); ok {
				fmt.Fprintln(out, ui.LabelValue("Last known", loc))
			}
			fmt.Fprintln(out, "")
			fmt.Fprintln(out, ui.IconBulb+" "+engine.ContextualAdvice(it, now))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("Top locations"))
			top := engine.TopLocations(it, 5)
			if len(top) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(no logs yet)"))
			}
			for i, lc := range top {
				fmt.Fprintf(out, "%d. %s %s\n", i+1, lc.Location, ui.Muted.Render(fmt.Sprintf("(%d)", lc.Count)))
			}

			logs, err := svc.RecentLogs(it.ID, recent)
			if err != nil {
				return err
			}
			if len(logs) > 0 {
				fmt.Fprintln(out, "")
				fmt.Fprintln(out, ui.H2.Render(ui.IconScroll+" Recent"))
				for _, l := range logs {
					fmt.Fprintf(out, "- %s %s %s %s\n", ui.LogTypeIcon(l.Type), l.Location, ui.LogTypeText(l.Type), ui.Muted.Render(ui.FormatRelative(l.Timestamp, now)))
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&recent, "recent", "n", 10, "Recent logs to show")
	return cmd
}
