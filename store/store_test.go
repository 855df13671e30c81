package store

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/percolath/experiment"
)

func sampleTable() *experiment.Table {
	return &experiment.Table{
		Strategy: experiment.FractionalBond,
		Rows: []experiment.Row{
			{Snapshot: "2001-05", Intensity: 0, Mean: 40, Initial: 40, Normalized: 1, Trials: 10},
			{Snapshot: "2001-05", Intensity: 0.5, Mean: 12.5, StdDev: 2.25, Initial: 40, Normalized: 0.3125, Trials: 10, Failed: 1},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTable()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, CSVHeader, records[0])
	assert.Equal(t, []string{"fractional-bond", "2001-05", "0.5", "12.5", "2.25", "40", "0.3125", "10", "1", "0"}, records[2])
}

func openMemory(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestSQLite_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	seed := int64(42)
	id, err := s.SaveTable(ctx, sampleTable(), RunMeta{Seed: &seed, Trials: 10, Workers: 4, Label: "enron"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	loaded, err := s.LoadTable(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, sampleTable(), loaded)

	unseeded, err := s.SaveTable(ctx, &experiment.Table{Strategy: experiment.IncrementalBond}, RunMeta{Trials: 1, Workers: 1})
	require.NoError(t, err)

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, 2, runs[0].Rows)
	require.NotNil(t, runs[0].Meta.Seed)
	assert.Equal(t, int64(42), *runs[0].Meta.Seed)
	assert.Equal(t, "enron", runs[0].Meta.Label)
	assert.False(t, runs[0].CreatedAt.IsZero())

	assert.Equal(t, unseeded, runs[1].ID)
	assert.Nil(t, runs[1].Meta.Seed)
	assert.Zero(t, runs[1].Rows)
}

func TestSQLite_DeleteAndMissing(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	id, err := s.SaveTable(ctx, sampleTable(), RunMeta{Trials: 10, Workers: 1})
	require.NoError(t, err)
	require.NoError(t, s.DeleteRun(ctx, id))

	_, err = s.LoadTable(ctx, id)
	require.ErrorIs(t, err, ErrRunNotFound)
	require.ErrorIs(t, s.DeleteRun(ctx, id), ErrRunNotFound)

	var n int
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM result_rows`).Scan(&n))
	assert.Zero(t, n, "rows cascade with their run")
}

func TestSQLite_ReopenKeepsRuns(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	id, err := s.SaveTable(ctx, sampleTable(), RunMeta{Trials: 10, Workers: 2})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
}

func TestSQLite_PathWithQuery(t *testing.T) {
	assert.Equal(t, "runs.db?_pragma=foreign_keys(1)", sqliteDSN("runs.db"))
	assert.Equal(t, "runs.db?_txlock=immediate&_pragma=foreign_keys(1)", sqliteDSN("runs.db?_txlock=immediate"))

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db") + "?_txlock=immediate"
	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	var fk int
	require.NoError(t, s.db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk, "foreign keys stay on next to a caller query")

	id, err := s.SaveTable(ctx, sampleTable(), RunMeta{Trials: 10, Workers: 1})
	require.NoError(t, err)
	_, err = s.LoadTable(ctx, id)
	require.NoError(t, err)
}
