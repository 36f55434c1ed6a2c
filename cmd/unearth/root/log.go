package root

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kynaruniverse/Unearth/internal/engine"
	"github.com/kynaruniverse/Unearth/internal/storage"
	"github.com/kynaruniverse/Unearth/internal/ui"
)

func itemAndLocationArgs(cmd *cobra.Command, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: <item> <location>")
	}
	return nil
}

func newLogCmd(a *app) *cobra.Command {
	var typ string

	cmd := &cobra.Command{
		Use:   "log <item> <location>",
		Short: "Record where an item was found or put away",
		Args:  itemAndLocationArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := engine.ParseLogType(typ)
			if err != nil {
				return err
			}
			return a.recordLog(cmd, args, t)
		},
	}
	cmd.Flags().StringVarP(&typ, "type", "t", "found", "Log type (found|stored)")
	return cmd
}

func newFoundCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "found <item> <location>",
		Short: "Record where you just found an item",
		Args:  itemAndLocationArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.recordLog(cmd, args, storage.LogFound)
		},
	}
}

func newStoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "store <item> <location>",
		Aliases: []string{"put"},
		Short:   "Record where you put an item away",
		Args:    itemAndLocationArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.recordLog(cmd, args, storage.LogStored)
		},
	}
}

func (a *app) recordLog(cmd *cobra.Command, args []string, typ storage.LogType) error {
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
	location := strings.Join(args[1:], " ")
	if err := svc.AddLog(ctx, it.ID, location, typ); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s at %s\n", ui.LogTypeIcon(typ), it.Name, ui.LogTypeText(typ), ui.Key.Render(strings.TrimSpace(location)))
	return printNotices(cmd, svc)
}
