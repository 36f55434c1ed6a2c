package root

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kynaruniverse/Unearth/internal/config"
	"github.com/kynaruniverse/Unearth/internal/logging"
	"github.com/kynaruniverse/Unearth/internal/ui"
)

const Version = "0.3.0"

// app carries state shared by every subcommand of one invocation.
type app struct {
	dbPath     string
	configPath string
	verbose    bool

	cfg *config.Config
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	cmd := &cobra.Command{
		Use:           "unearth",
		Short:         "Unearth: remember where your things are",
		Long:          "Unearth is a local-first CLI/TUI that learns where you keep and find your things, with XP, streaks and achievements.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	cmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "Database file (default $UNEARTH_DB or ~/.unearth.db)")
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default ~/.config/unearth/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Debug logging to stderr")

	cmd.AddCommand(
		newAddCmd(a),
		newRmCmd(a),
		newLogCmd(a),
		newFoundCmd(a),
		newStoreCmd(a),
		newLostCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newStatsCmd(a),
		newStatusCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newResetCmd(a),
		newBoardCmd(a),
		newConfigCmd(a),
	)
	return cmd
}

func (a *app) setup() error {
	path := a.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	a.configPath = path
	a.cfg = cfg

	level := cfg.Log.Level
	if a.verbose {
		level = "debug"
	}
	logger, err := logging.New(cfg.Log.Mode, level)
	if err != nil {
		return err
	}
	a.log = logger
	a.log.Debug("config loaded", zap.String("path", path))
	return nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		stop()
		os.Exit(1)
	}
}
