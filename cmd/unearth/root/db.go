package root

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kynaruniverse/Unearth/internal/engine"
	"github.com/kynaruniverse/Unearth/internal/storage"
	"github.com/kynaruniverse/Unearth/internal/ui"
)

func (a *app) openDB(ctx context.Context) (*sql.DB, func(), error) {
	explicit := a.dbPath
	if explicit == "" {
		explicit = a.cfg.DBPath
	}
	path, err := storage.ResolveDBPath(explicit)
	if err != nil {
		return nil, nil, err
	}
	a.log.Debug("opening database", zap.String("path", path))
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}

func (a *app) openService(ctx context.Context) (*engine.Service, func(), error) {
	db, cleanup, err := a.openDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	opts := a.cfg.EngineOptions()
	opts.Logger = a.log
	svc := engine.NewService(ctx, storage.NewStore(db), opts)
	return svc, cleanup, nil
}

// openReadService opens the service and fails when a stored record could
// not be loaded, so nothing reports an empty store in its place.
func (a *app) openReadService(ctx context.Context, cmd *cobra.Command) (*engine.Service, func(), error) {
	svc, cleanup, err := a.openService(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := printNotices(cmd, svc); err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

// printNotices writes and clears pending notices. When a record is still
// not durable the error is returned so the command exits non-zero after
// its output.
func printNotices(cmd *cobra.Command, svc *engine.Service) error {
	for _, n := range svc.DrainNotices() {
		if n.Kind == engine.NoticePersistenceFailed {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.NoticeText(n))
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.NoticeText(n))
	}
	if err := svc.LastPersistError(); err != nil {
		return fmt.Errorf("stored data is not durable (see: unearth reset --items, unearth import): %w", err)
	}
	return nil
}

func findItem(svc *engine.Service, ref string) (storage.Item, error) {
	it, err := svc.FindItem(ref)
	if err != nil {
		return storage.Item{}, fmt.Errorf("%w (see: unearth list)", err)
	}
	return it, nil
}
