// Package progress prints a single, continuously updated line of progress to a terminal.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// DefaultFlushInterval limits updates to about 30 per second.
const DefaultFlushInterval = time.Second / 30

// Rewritable repeatedly rewrites a single line of output.
// It may be used concurrently.
type Rewritable struct {
	Writer        io.Writer
	FlushInterval time.Duration // minimum time between two writes to Writer

	m         sync.Mutex
	lastFlush time.Time
	width     int    // widest line written so far
	line      string // line to write on the next flush
}

// Write replaces the line, writing it out unless the last flush was too recent.
func (rw *Rewritable) Write(line string) {
	rw.m.Lock()
	defer rw.m.Unlock()

	rw.line = line
	rw.flush(false)
}

// Flush writes out the current line, even if the last flush was too recent when force is set.
func (rw *Rewritable) Flush(force bool) {
	rw.m.Lock()
	defer rw.m.Unlock()

	rw.flush(force)
}

func (rw *Rewritable) flush(force bool) {
	if rw.Writer == nil || (!force && time.Since(rw.lastFlush) <= rw.FlushInterval) {
		return
	}

	rw.width = max(rw.width, len(rw.line))
	fmt.Fprintf(rw.Writer, "\r%-*s", rw.width, rw.line)
	rw.lastFlush = time.Now()
}

// Close blanks the line and returns the cursor to its start.
func (rw *Rewritable) Close() {
	rw.m.Lock()
	defer rw.m.Unlock()

	rw.line = ""
	rw.flush(true)
	if rw.Writer != nil {
		_, _ = io.WriteString(rw.Writer, "\r")
	}
}

// Counter shows a count of items, with an optional total.
type Counter struct {
	Rewritable
}

// Set shows count items under the given label.
// A total of 0 means that the total is unknown.
func (counter *Counter) Set(label string, count, total int) {
	countS := humanize.Comma(int64(count))
	if total <= 0 || count >= total {
		counter.Write(label + ": " + countS)
		return
	}

	totalS := humanize.Comma(int64(total))
	counter.Write(label + ": " + strings.Repeat(" ", max(0, len(totalS)-len(countS))) + countS + "/" + totalS)
}
