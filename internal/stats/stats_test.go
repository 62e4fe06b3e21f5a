package stats_test

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/FAU-CDI/nightcap/internal/stats"
	"github.com/FAU-CDI/nightcap/internal/triplestore/igraph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats_Nil(t *testing.T) {
	var st *stats.Stats

	// none of these may panic
	st.Log("hello")
	st.LogDebug("hello")
	st.LogError("hello", errors.New("world"))
	st.SetCT(1, 2)
	st.ObserveIndex(igraph.Stats{Terms: 1})
	st.Close()

	called := false
	require.NoError(t, st.DoStage(stats.StageLoad, func() error {
		called = true
		return nil
	}))
	assert.True(t, called)
	assert.True(t, st.Done())
	assert.Equal(t, igraph.Stats{}, st.Index())
	assert.Empty(t, st.Stages())
}

func TestStats_DoStage(t *testing.T) {
	var builder strings.Builder
	st := stats.NewStats(&builder, slog.LevelDebug)

	st.ObserveIndex(igraph.Stats{Statements: 2, Terms: 6})
	require.NoError(t, st.DoStage(stats.StageLoad, func() error {
		st.SetCT(5, 10)
		st.ObserveIndex(igraph.Stats{Statements: 7, Terms: 15})

		running := st.Stages()
		require.Len(t, running, 1)
		assert.Equal(t, 5, running[0].Current)
		return nil
	}))

	errFailed := errors.New("failed")
	assert.ErrorIs(t, st.DoStage(stats.StageExportSQL, func() error { return errFailed }), errFailed)

	all := st.Stages()
	require.Len(t, all, 2)
	assert.Equal(t, stats.StageLoad, all[0].Stage)
	assert.Equal(t, 10, all[0].Total)
	assert.Equal(t, uint64(2), all[0].Before.Statements)
	assert.Equal(t, uint64(7), all[0].After.Statements)
	assert.Equal(t, stats.StageExportSQL, all[1].Stage)

	output := builder.String()
	assert.Contains(t, output, "stage=load")
	assert.Contains(t, output, "statements=5")
	assert.Contains(t, output, "terms=9")
	assert.Contains(t, output, "FAILED stage")
	assert.Contains(t, output, "stage=export/sql")

	// progress outside of a stage is dropped
	st.SetCT(1, 1)
	assert.Len(t, st.Stages(), 2)

	st.Close()
	assert.True(t, st.Done())
	st.ObserveIndex(igraph.Stats{Statements: 4})
	assert.Equal(t, uint64(7), st.Index().Statements)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := stats.NewMetrics(reg)

	metrics.ObserveIndex(igraph.Stats{Statements: 10, Retired: 2, Terms: 30})
	metrics.ObserveCommit(3, 1)
	metrics.ObserveCommit(1, 0)
	metrics.ObserveRollback()
	metrics.ObserveCollect(time.Millisecond, igraph.CollectStats{Statements: 2, Terms: 5})

	count, err := testutil.GatherAndCount(reg, "nightcap_statements", "nightcap_commits_total", "nightcap_gc_reclaimed_total")
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	// nil metrics discard everything
	var nilMetrics *stats.Metrics
	nilMetrics.ObserveCommit(1, 1)
	nilMetrics.ObserveReaders(1)
}
