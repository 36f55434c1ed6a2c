package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kynaruniverse/Unearth/internal/ui"
)

func newStatsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show totals across all items",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := a.openReadService(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			st := svc.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconChart, "Stats"))
			fmt.Fprintln(out, ui.LabelValue("Items", st.ItemCount))
			fmt.Fprintln(out, ui.LabelValue("Logs", st.LogCount))
			fmt.Fprintln(out, ui.LabelValue("Total losses", st.TotalLost))
			mostLost := ui.Muted.Render("-")
			if st.MostLostItem != "" {
				mostLost = fmt.Sprintf("%s (%d)", st.MostLostItem, st.MostLostCount)
			}
			fmt.Fprintln(out, ui.LabelValue("Most lost", mostLost))
			top := ui.Muted.Render("-")
			if st.TopLocation != "" {
				top = st.TopLocation
			}
			fmt.Fprintln(out, ui.LabelValue("Top location", top))
			return nil
		},
	}
	return cmd
}
