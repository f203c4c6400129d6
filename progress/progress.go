// Package progress renders a single status line that is redrawn in place
// while a long running operation advances.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// Compile-time check for ensuring Line implements logrus.Hook.
var _ logrus.Hook = (*Line)(nil)

// Line is a status line bound to a writer. Updates are only drawn when the
// writer is a terminal; otherwise they are dropped. Line also implements
// logrus.Hook so that any log entry first wipes the status line and the
// next update redraws it below the entry.
//
// A Line must be finished with Done.
type Line struct {
	mu     sync.Mutex
	w      io.Writer
	tty    bool
	maxLen int
	width  int
}

// New returns a Line writing to w. Drawing is enabled when w is a terminal.
func New(w io.Writer) *Line {
	l := &Line{w: w}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		l.tty = true
		if width, _, err := term.GetSize(int(f.Fd())); err == nil {
			l.width = width
		}
	}
	return l
}

// NewForced returns a Line that draws to w regardless of its type, wrapping
// at width columns when width is positive.
func NewForced(w io.Writer, width int) *Line {
	return &Line{w: w, tty: true, width: width}
}

// Update replaces the status line with msg.
func (l *Line) Update(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.tty {
		return
	}
	if l.width > 0 && len(msg) >= l.width {
		msg = msg[:l.width-1]
	}
	if len(msg) > l.maxLen {
		l.maxLen = len(msg)
	}
	fmt.Fprint(l.w, "\r"+msg+strings.Repeat(" ", l.maxLen-len(msg)))
}

// Scan renders the percentage of files done and the edges written so far.
func (l *Line) Scan(done, total, edges int) {
	pct := 100.0
	if total > 0 {
		pct = 100 * float64(done) / float64(total)
	}
	l.Update(fmt.Sprintf("%.3f%% done | %s edges found", pct, humanize.Comma(int64(edges))))
}

// Clear wipes the status line if one is currently drawn.
func (l *Line) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clear()
}

// Done wipes the status line and releases the terminal to other writers.
func (l *Line) Done() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clear()
	l.tty = false
}

func (l *Line) clear() {
	if !l.tty || l.maxLen == 0 {
		return
	}
	fmt.Fprint(l.w, "\r"+strings.Repeat(" ", l.maxLen)+"\r")
	l.maxLen = 0
}

// Levels implements logrus.Hook.
func (l *Line) Levels() []logrus.Level { return logrus.AllLevels }

// Fire implements logrus.Hook.
func (l *Line) Fire(*logrus.Entry) error {
	l.Clear()
	return nil
}
