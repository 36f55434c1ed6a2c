package root

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kynaruniverse/Unearth/internal/engine"
	"github.com/kynaruniverse/Unearth/internal/ui"
)

func newExportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all items and progress as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := a.openReadService(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			doc := svc.Export()
			if output == "" || output == "-" {
				return engine.WriteExport(cmd.OutOrStdout(), doc)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create export: %w", err)
			}
			if err := engine.WriteExport(f, doc); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Exported %d items to %s\n", ui.IconDone, len(doc.Items), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var withProgress bool

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace all items with the contents of an export",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("an export file (or - for stdin) is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open export: %w", err)
				}
				defer f.Close()
				r = f
			}
			doc, err := engine.ReadExport(r)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			svc, cleanup, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.Import(ctx, doc, engine.ImportOptions{Progress: withProgress})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Imported %d items (%d logs)\n", ui.IconDone, res.Items, res.Logs)
			if res.ProgressRestored {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Progress restored from export."))
			}
			return printNotices(cmd, svc)
		},
	}
	cmd.Flags().BoolVar(&withProgress, "progress", false, "Also restore XP, streak and achievements")
	return cmd
}
