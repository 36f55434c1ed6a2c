package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kynaruniverse/Unearth/internal/ui"
)

func newResetCmd(a *app) *cobra.Command {
	var yes bool
	var items bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset XP, streaks and achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to reset without --yes")
			}
			ctx := cmd.Context()
			svc, cleanup, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			svc.Reset(ctx, items)
			what := "Progress"
			if items {
				what = "Progress and items"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s reset.\n", ui.IconWarn, what)
			return printNotices(cmd, svc)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the reset")
	cmd.Flags().BoolVar(&items, "items", false, "Also delete all items and logs")
	return cmd
}
