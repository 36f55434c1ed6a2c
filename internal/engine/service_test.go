package engine

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kynaruniverse/Unearth/internal/storage"
)

var errQuota = errors.New("quota exceeded")

// failingStore fails every operation whose flag is set.
type failingStore struct {
	failLoad      bool
	failSave      bool
	failItemsOnly bool
	saves         int
	itemWrites    int
}

func (f *failingStore) LoadItems(ctx context.Context) ([]storage.Item, error) {
	if f.failLoad {
		return nil, &storage.PersistenceError{Op: "read", Key: storage.ItemsKey, Err: errQuota}
	}
	return []storage.Item{}, nil
}

func (f *failingStore) SaveItems(ctx context.Context, items []storage.Item) error {
	f.saves++
	if f.failSave || f.failItemsOnly {
		return &storage.PersistenceError{Op: "write", Key: storage.ItemsKey, Err: errQuota}
	}
	f.itemWrites++
	return nil
}

func (f *failingStore) LoadProgress(ctx context.Context) (*storage.Progress, error) {
	if f.failLoad {
		return nil, &storage.PersistenceError{Op: "read", Key: storage.ProgressKey, Err: errQuota}
	}
	return storage.NewProgress(), nil
}

func (f *failingStore) SaveProgress(ctx context.Context, p *storage.Progress) error {
	f.saves++
	if f.failSave {
		return &storage.PersistenceError{Op: "write", Key: storage.ProgressKey, Err: errQuota}
	}
	return nil
}

func (f *failingStore) SaveAll(ctx context.Context, items []storage.Item, p *storage.Progress) error {
	if err := f.SaveItems(ctx, items); err != nil {
		return err
	}
	return f.SaveProgress(ctx, p)
}

func TestPersistenceFailureKeepsInMemoryState(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	store := &failingStore{failSave: true}
	clock := &fakeClock{t: testStart}
	svc := NewService(context.Background(), store, Options{
		Logger:   zap.New(core),
		Now:      clock.Now,
		Location: time.UTC,
	})

	keys, err := svc.AddItem(context.Background(), "Keys")
	require.NoError(t, err)
	require.NoError(t, svc.AddLog(context.Background(), keys.ID, "Car", storage.LogFound))

	assert.Len(t, svc.Items(), 1)
	assert.Greater(t, svc.Progress().XP, 0)
	assert.ErrorIs(t, svc.LastPersistError(), errQuota)
	assert.GreaterOrEqual(t, countNotices(svc.DrainNotices(), NoticePersistenceFailed), 1)
	assert.GreaterOrEqual(t, logs.FilterMessage("persistence failed").Len(), 1)

	// No retry: each failed write happened exactly once per mutation step.
	assert.Equal(t, 4, store.saves)

	store.failSave = false
	svc.GrantXP(context.Background(), 1)
	assert.ErrorIs(t, svc.LastPersistError(), errQuota, "items are still not durable")

	require.NoError(t, svc.AddLog(context.Background(), keys.ID, "Desk", storage.LogFound))
	assert.NoError(t, svc.LastPersistError())
}

func TestItemsFailureSurvivesProgressWrite(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{failItemsOnly: true}
	svc := NewService(ctx, store, Options{Now: (&fakeClock{t: testStart}).Now, Location: time.UTC})

	_, err := svc.AddItem(ctx, "Keys")
	require.NoError(t, err)

	var perr *storage.PersistenceError
	require.True(t, errors.As(svc.LastPersistError(), &perr), "items write failed but error was cleared")
	assert.Equal(t, storage.ItemsKey, perr.Key)

	svc.GrantXP(ctx, 5)
	assert.ErrorIs(t, svc.LastPersistError(), errQuota)

	store.failItemsOnly = false
	_, err = svc.AddItem(ctx, "Phone")
	require.NoError(t, err)
	assert.NoError(t, svc.LastPersistError())
}

func TestLoadFailureNeverOverwritesRecord(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{failLoad: true}
	svc := NewService(ctx, store, Options{Now: (&fakeClock{t: testStart}).Now, Location: time.UTC})
	svc.DrainNotices()
	store.failLoad = false

	_, err := svc.AddItem(ctx, "Phone")
	require.NoError(t, err)
	assert.Equal(t, 0, store.itemWrites)
	assert.ErrorIs(t, svc.LastPersistError(), ErrStateNotLoaded)
	assert.GreaterOrEqual(t, countNotices(svc.DrainNotices(), NoticePersistenceFailed), 1)

	svc.Reset(ctx, true)
	assert.Equal(t, 1, store.itemWrites)
	assert.NoError(t, svc.LastPersistError())
}

func TestLoadFailureStartsEmpty(t *testing.T) {
	svc := NewService(context.Background(), &failingStore{failLoad: true}, Options{})

	assert.Empty(t, svc.Items())
	assert.Equal(t, 1, svc.Progress().Level)
	var perr *storage.PersistenceError
	assert.True(t, errors.As(svc.LastPersistError(), &perr))
	assert.Equal(t, 2, countNotices(svc.DrainNotices(), NoticePersistenceFailed))
}

func TestStateSurvivesReload(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	clock := &fakeClock{t: testStart}
	opts := Options{Now: clock.Now, Location: time.UTC}

	svc := NewService(ctx, store, opts)
	keys, err := svc.AddItem(ctx, "Keys")
	require.NoError(t, err)
	require.NoError(t, svc.AddLog(ctx, keys.ID, "Car", storage.LogStored))
	_, err = svc.ReportLost(ctx, keys.ID)
	require.NoError(t, err)

	reloaded := NewService(ctx, store, opts)
	if diff := cmp.Diff(svc.Items(), reloaded.Items()); diff != "" {
		t.Fatalf("items mismatch after reload (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(svc.Progress(), reloaded.Progress()); diff != "" {
		t.Fatalf("progress mismatch after reload (-want +got):\n%s", diff)
	}
	assert.NoError(t, reloaded.LastPersistError())
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src, clock := newTestService(t)
	keys := mustAddItem(t, src, "Keys")
	phone := mustAddItem(t, src, "Phone")
	for _, loc := range []string{"Kitchen drawer", "Car", "Kitchen drawer"} {
		clock.Advance(time.Hour)
		mustLog(t, src, keys.ID, loc, storage.LogFound)
	}
	mustLog(t, src, phone.ID, "Sofa", storage.LogStored)
	_, err := src.ReportLost(ctx, phone.ID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteExport(&buf, src.Export()))

	doc, err := ReadExport(&buf)
	require.NoError(t, err)
	assert.Equal(t, ExportVersion, doc.Version)
	require.NotNil(t, doc.Progress)
	assert.Equal(t, src.Progress().XP, doc.Progress.XP)

	dst, _ := newTestService(t)
	res, err := dst.Import(ctx, doc, ImportOptions{Progress: true})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Items)
	assert.Equal(t, 4, res.Logs)
	assert.True(t, res.ProgressRestored)

	if diff := cmp.Diff(src.Items(), dst.Items()); diff != "" {
		t.Fatalf("items mismatch after import (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(src.Progress(), dst.Progress()); diff != "" {
		t.Fatalf("progress mismatch after import (-want +got):\n%s", diff)
	}
}

func TestImportRejectsInvalidDocuments(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	mustAddItem(t, svc, "Umbrella")
	before := svc.Items()

	docs := map[string]*ExportDocument{
		"nil":          nil,
		"version":      {Version: "1.0"},
		"empty name":   {Items: []storage.Item{{Name: "  "}}},
		"duplicate":    {Items: []storage.Item{{Name: "Keys"}, {Name: "keys"}}},
		"empty loc":    {Items: []storage.Item{{Name: "Keys", Logs: []storage.Log{{Location: " "}}}}},
		"unknown type": {Items: []storage.Item{{Name: "Keys", Logs: []storage.Log{{Location: "Car", Type: "lost"}}}}},
	}
	for name, doc := range docs {
		_, err := svc.Import(ctx, doc, ImportOptions{})
		assert.ErrorIs(t, err, ErrInvalidImport, name)
	}
	if diff := cmp.Diff(before, svc.Items()); diff != "" {
		t.Fatalf("items changed by rejected imports (-want +got):\n%s", diff)
	}
}

func TestImportAssignsMissingIDs(t *testing.T) {
	svc, _ := newTestService(t)
	doc := &ExportDocument{Items: []storage.Item{
		{Name: "Keys", Logs: []storage.Log{{Location: "Car"}}},
		{ID: "dup", Name: "Phone"},
		{ID: "dup", Name: "Wallet"},
	}}
	_, err := svc.Import(context.Background(), doc, ImportOptions{})
	require.NoError(t, err)

	ids := map[string]bool{}
	for _, it := range svc.Items() {
		assert.NotEmpty(t, it.ID)
		assert.False(t, ids[it.ID], "duplicate id %s", it.ID)
		ids[it.ID] = true
	}
	keys, err := svc.FindItem("keys")
	require.NoError(t, err)
	assert.Equal(t, storage.LogFound, keys.Logs[0].Type)
}
