package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kynaruniverse/Unearth/internal/engine"
	"github.com/kynaruniverse/Unearth/internal/ui"
)

func newLostCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "lost <item>",
		Short: "Report an item missing and get the best places to look",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("exactly one item (name or id) is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			it, err := findItem(svc, args[0])
			if err != nil {
				return err
			}
			it, err = svc.ReportLost(ctx, it.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconLost, "Lost "+it.Name))
			fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("Lost %d time(s) so far.", it.LostCount)))
			if loc, ok := engine.LastKnownLocation(it); ok {
				fmt.Fprintln(out, ui.LabelValue("Last known", loc))
			}
			fmt.Fprintln(out, ui.IconBulb+" "+engine.ContextualAdvice(it, svc.Now()))

			top := engine.TopLocations(it, limit)
			if len(top) > 0 {
				fmt.Fprintln(out, ui.H2.Render("Where to look"))
				for i, lc := range top {
					fmt.Fprintf(out, "%d. %s %s\n", i+1, lc.Location, ui.Muted.Render(fmt.Sprintf("(%d)", lc.Count)))
				}
			}
			return printNotices(cmd, svc)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "How many places to suggest")
	return cmd
}
