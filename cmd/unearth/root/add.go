package root

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kynaruniverse/Unearth/internal/ui"
)

func newAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Start tracking an item",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("item name is required")
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

			it, err := svc.AddItem(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Added %s %s\n", ui.IconPlus, ui.Good.Render(it.Name), ui.Muted.Render("("+shortID(it.ID)+")"))
			return printNotices(cmd, svc)
		},
	}
	return cmd
}

func newRmCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <item>",
		Aliases: []string{"delete"},
		Short:   "Stop tracking an item and drop its history",
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
			svc.DeleteItem(ctx, it.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "%s Removed %s (%d logs)\n", ui.IconDone, it.Name, len(it.Logs))
			return printNotices(cmd, svc)
		},
	}
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
