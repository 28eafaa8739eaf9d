package eventstore

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_AppendAndGet(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()

	require.NoError(t, store.Append(ctx, "b1", "custom", []byte(`{"a":1}`), map[string]string{"k": "v"}))
	require.NoError(t, store.Append(ctx, "b2", "custom", nil, nil))

	events, err := store.GetByBuildID(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "custom", events[0].Type)
	require.JSONEq(t, `{"a":1}`, string(events[0].Payload))
	require.Equal(t, "v", events[0].Metadata["k"])
	require.WithinDuration(t, time.Now(), events[0].Timestamp, time.Minute)

	events, err = store.GetByBuildID(ctx, "b2")
	require.NoError(t, err)
	require.Equal(t, []byte("{}"), events[0].Payload)

	all, err := store.GetRange(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestJournalAndRecent(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()
	j := NewJournal(store)

	require.NoError(t, j.BuildStarted(ctx, "first", "cli"))
	require.NoError(t, j.PostFailed(ctx, "first", "bad.md", errors.New("invalid front matter")))
	require.NoError(t, j.BuildCompleted(ctx, "first", BuildCompleted{Outcome: "warning", Posts: 4, DurationMS: 1500}))
	require.NoError(t, j.BuildStarted(ctx, "second", "watch"))

	builds, err := Recent(ctx, store, 10)
	require.NoError(t, err)
	require.Len(t, builds, 2)

	require.Equal(t, "second", builds[0].BuildID)
	require.Equal(t, StatusRunning, builds[0].Status)
	require.Nil(t, builds[0].CompletedAt)

	first := builds[1]
	require.Equal(t, "first", first.BuildID)
	require.Equal(t, "cli", first.Trigger)
	require.Equal(t, StatusCompleted, first.Status)
	require.Equal(t, "warning", first.Outcome)
	require.Equal(t, 4, first.Posts)
	require.Equal(t, 1500*time.Millisecond, first.Duration)
	require.Equal(t, []string{"bad.md"}, first.FailedFiles)

	limited, err := Recent(ctx, store, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestJournal_NilDiscards(t *testing.T) {
	var j *Journal
	require.NoError(t, j.BuildStarted(t.Context(), "x", "cli"))
}

func TestSQLiteStore_PersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, NewJournal(store).BuildStarted(t.Context(), "b", "cli"))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	ids, err := reopened.RecentBuildIDs(t.Context(), 5)
	require.NoError(t, err)
	require.Equal(t, []string{"b"}, ids)
}

func TestSummarize_SkipsUndecodablePayloads(t *testing.T) {
	s := Summarize([]Event{
		{BuildID: "x", Type: TypeBuildStarted, Payload: []byte("not json")},
		{BuildID: "x", Type: TypeBuildCompleted, Payload: []byte(`{"outcome":"success"}`)},
	})
	require.Equal(t, "x", s.BuildID)
	require.Equal(t, "success", s.Outcome)
	require.Empty(t, s.Trigger)
}
