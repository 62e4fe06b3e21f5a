// Package stats records the lifecycle of a store process and logs it.
package stats

import (
	"io"
	"log/slog"
	"sync"

	"github.com/FAU-CDI/nightcap/internal/triplestore/igraph"
	"github.com/FAU-CDI/nightcap/pkg/progress"
	"github.com/tkw1536/pkglib/lazy"
	"github.com/tkw1536/pkglib/perf"
)

// Stage is a phase in the life of a store process.
type Stage string

const (
	StageNone         Stage = ""
	StageOpen         Stage = "open"
	StageLoad         Stage = "load"
	StageServe        Stage = "serve"
	StageExportNQuads Stage = "export/nquads"
	StageExportLines  Stage = "export/lines"
	StageExportSQL    Stage = "export/sql"
)

// Stats logs messages and tracks the stages a process goes through.
// For each stage it records timing, progress and the index counters before and after.
//
// Stats may be used concurrently.
// A nil Stats is valid and discards everything.
type Stats struct {
	logger  *slog.Logger
	counter *progress.Counter

	index lazy.Lazy[igraph.Stats]

	m      sync.Mutex
	closed bool
	stage  *StageStats  // running stage, if any
	stages []StageStats // finished stages
}

// StageStats describes a single stage.
type StageStats struct {
	Stage Stage

	Start perf.Snapshot
	End   perf.Snapshot

	// progress within the stage; a Total of 0 means unknown
	Current int
	Total   int

	Before igraph.Stats // index counters when the stage started
	After  igraph.Stats // index counters when the stage ended
}

// Took returns the performance difference of the stage.
func (ss StageStats) Took() perf.Diff {
	return ss.End.Sub(ss.Start)
}

// NewStats creates a new Stats that logs messages of at least level to w.
func NewStats(w io.Writer, level slog.Leveler) *Stats {
	if w == nil {
		return &Stats{}
	}
	return &Stats{
		logger:  slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})),
		counter: &progress.Counter{Rewritable: progress.Rewritable{Writer: w, FlushInterval: progress.DefaultFlushInterval}},
	}
}

// Log logs an informational message.
func (st *Stats) Log(message string, fields ...any) {
	if st == nil || st.logger == nil {
		return
	}
	st.logger.Info(message, fields...)
}

// LogDebug logs a debug message.
func (st *Stats) LogDebug(message string, fields ...any) {
	if st == nil || st.logger == nil {
		return
	}
	st.logger.Debug(message, fields...)
}

// LogError logs err at error level.
func (st *Stats) LogError(message string, err error, fields ...any) {
	if st == nil || st.logger == nil {
		return
	}
	st.logger.Error("FAILED "+message, append([]any{"err", err}, fields...)...)
}

// ObserveIndex records the latest counters of the index.
func (st *Stats) ObserveIndex(stats igraph.Stats) {
	if st == nil || st.Done() {
		return
	}
	st.index.Set(stats)
}

// Index returns the counters last passed to ObserveIndex.
func (st *Stats) Index() igraph.Stats {
	if st == nil {
		return igraph.Stats{}
	}
	return st.index.Get(nil)
}

// DoStage runs f as the given stage and logs its outcome.
// Stages do not nest; a stage started while another one runs ends the running one.
func (st *Stats) DoStage(stage Stage, f func() error) error {
	if st == nil || st.Done() {
		return f()
	}

	st.begin(stage)
	err := f()
	prev, ok := st.finish()

	switch {
	case err != nil:
		st.LogError("stage", err, "stage", stage, "took", prev.Took())
	case ok:
		st.Log("stage", "stage", stage, "took", prev.Took(),
			"statements", int64(prev.After.Statements)-int64(prev.Before.Statements),
			"terms", int64(prev.After.Terms)-int64(prev.Before.Terms),
		)
	}
	return err
}

func (st *Stats) begin(stage Stage) {
	st.finish()

	st.m.Lock()
	defer st.m.Unlock()

	st.stage = &StageStats{Stage: stage, Start: perf.Now(), Before: st.Index()}
	st.LogDebug("start", "stage", stage)
}

func (st *Stats) finish() (prev StageStats, ok bool) {
	st.m.Lock()
	defer st.m.Unlock()

	if st.stage == nil {
		return prev, false
	}

	st.stage.End = perf.Now()
	st.stage.After = st.Index()
	prev = *st.stage

	st.stages = append(st.stages, prev)
	st.stage = nil

	if st.counter != nil && (prev.Current != 0 || prev.Total != 0) {
		st.counter.Flush(true)
		st.counter.Close()
	}
	return prev, true
}

// SetCT reports progress within the running stage.
// A total of 0 means that the total is unknown.
func (st *Stats) SetCT(current, total int) {
	if st == nil {
		return
	}

	st.m.Lock()
	if st.closed || st.stage == nil {
		st.m.Unlock()
		return
	}
	st.stage.Current = current
	st.stage.Total = total
	stage := st.stage.Stage
	st.m.Unlock()

	if st.counter != nil {
		st.counter.Set(string(stage), current, total)
	}
}

// Stages returns the finished stages followed by the running one, if any.
func (st *Stats) Stages() []StageStats {
	if st == nil {
		return nil
	}

	st.m.Lock()
	defer st.m.Unlock()

	stages := append([]StageStats(nil), st.stages...)
	if st.stage != nil {
		stages = append(stages, *st.stage)
	}
	return stages
}

// Took returns the performance difference from the start of the first to the end of the last finished stage.
func (st *Stats) Took() perf.Diff {
	if st == nil {
		return perf.Diff{}
	}

	st.m.Lock()
	defer st.m.Unlock()

	if len(st.stages) == 0 {
		return perf.Diff{}
	}
	return st.stages[len(st.stages)-1].End.Sub(st.stages[0].Start)
}

// Close ends the running stage and ignores everything but log messages from now on.
func (st *Stats) Close() {
	if st == nil {
		return
	}
	st.finish()

	st.m.Lock()
	defer st.m.Unlock()
	st.closed = true
}

// Done reports if st is nil or closed.
func (st *Stats) Done() bool {
	if st == nil {
		return true
	}
	st.m.Lock()
	defer st.m.Unlock()
	return st.closed
}
