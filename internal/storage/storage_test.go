package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(context.Background(), db))
	require.NoError(t, Migrate(context.Background(), db))
}

func TestKVRepoGetPutDelete(t *testing.T) {
	ctx := context.Background()
	kv := NewKVRepo(openTestDB(t))

	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Put(ctx, "k", []byte(`{"a":1}`)))
	require.NoError(t, kv.Put(ctx, "k", []byte(`{"a":2}`)))
	v, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a":2}`, string(v))

	require.NoError(t, kv.Delete(ctx, "k"))
	_, ok, err = kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestItemRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore(openTestDB(t))

	empty, err := store.LoadItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	ts := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	items := []Item{
		{ID: "a", Name: "Keys", CreatedAt: ts, LostCount: 2, Logs: []Log{
			{Timestamp: ts, Location: "Kitchen drawer", Type: LogFound},
			{Timestamp: ts.Add(time.Hour), Location: "Hook", Type: LogStored},
		}},
		{ID: "b", Name: "Wallet", CreatedAt: ts, Logs: []Log{}},
	}
	require.NoError(t, store.SaveItems(ctx, items))

	got, err := store.LoadItems(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(items, got); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestItemRepoDefaultsImplicitLogType(t *testing.T) {
	ctx := context.Background()
	store := NewStore(openTestDB(t))
	raw := `[{"id":"a","name":"Keys","createdAt":"2026-03-02T09:30:00Z","logs":[{"timestamp":"2026-03-02T09:30:00Z","location":"Car"}]}]`
	require.NoError(t, store.KV().Put(ctx, ItemsKey, []byte(raw)))

	got, err := store.LoadItems(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Logs, 1)
	assert.Equal(t, LogFound, got[0].Logs[0].Type)
}

func TestItemRepoDecodeFailure(t *testing.T) {
	ctx := context.Background()
	store := NewStore(openTestDB(t))
	require.NoError(t, store.KV().Put(ctx, ItemsKey, []byte(`not json`)))

	_, err := store.LoadItems(ctx)
	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "decode", perr.Op)
	assert.Equal(t, ItemsKey, perr.Key)

	kept, ok, err := store.KV().Get(ctx, ItemsKey+CorruptSuffix)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "not json", string(kept))

	// Overwriting the live record leaves the copy intact.
	require.NoError(t, store.SaveItems(ctx, []Item{}))
	kept, _, err = store.KV().Get(ctx, ItemsKey+CorruptSuffix)
	require.NoError(t, err)
	assert.Equal(t, "not json", string(kept))
}

func TestProgressRepoDecodeFailureKeepsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewStore(openTestDB(t))
	require.NoError(t, store.KV().Put(ctx, ProgressKey, []byte(`{"xp":`)))

	_, err := store.LoadProgress(ctx)
	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ProgressKey, perr.Key)

	kept, ok, err := store.KV().Get(ctx, ProgressKey+CorruptSuffix)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"xp":`, string(kept))
}

func TestProgressRepoDefaultsAndSave(t *testing.T) {
	ctx := context.Background()
	store := NewStore(openTestDB(t))

	p, err := store.LoadProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 0, p.XP)
	assert.NotNil(t, p.Achievements)

	p.XP = 120
	p.Level = 2
	p.Streak = 3
	p.LongestStreak = 4
	p.LastActiveDate = "2026-03-02"
	p.Achievements = []string{"first_item"}
	p.DailyChallenge = DailyChallenge{Target: 3, Current: 1, Date: "2026-03-02"}
	require.NoError(t, store.SaveProgress(ctx, p))

	got, err := store.LoadProgress(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(p, got); diff != "" {
		t.Fatalf("progress mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, got.HasAchievement("first_item"))
	assert.False(t, got.HasAchievement("detective"))
}

func TestSaveAllWritesBothRecords(t *testing.T) {
	ctx := context.Background()
	store := NewStore(openTestDB(t))

	p := NewProgress()
	p.XP = 40
	require.NoError(t, store.SaveAll(ctx, []Item{{ID: "x", Name: "Phone", Logs: []Log{}}}, p))

	items, err := store.LoadItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Phone", items[0].Name)

	got, err := store.LoadProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40, got.XP)
}

func TestWriteAfterCloseIsPersistenceError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closed.db")
	db, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	err = NewStore(db).SaveItems(context.Background(), nil)
	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "write", perr.Op)
}

func TestResolveDBPath(t *testing.T) {
	t.Setenv(DBPathEnv, "")
	p, err := ResolveDBPath("/tmp/explicit.db")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/explicit.db", p)

	t.Setenv(DBPathEnv, "/tmp/from-env.db")
	p, err = ResolveDBPath("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env.db", p)

	t.Setenv("HOME", "/home/tester")
	p, err = ResolveDBPath("~/x.db")
	require.NoError(t, err)
	assert.Equal(t, "/home/tester/x.db", p)
}
