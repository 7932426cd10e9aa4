package logging

import (
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Ring is a logrus hook that keeps the last N formatted lines in memory for the
// console log pane.
type Ring struct {
	mu    sync.Mutex
	lines []string
	next  int
	full  bool
	fmt   log.Formatter
}

func NewRing(size int) *Ring {
	if size <= 0 {
		size = 200
	}
	return &Ring{
		lines: make([]string, size),
		fmt:   &log.TextFormatter{DisableColors: true, TimestampFormat: "15:04:05", FullTimestamp: true},
	}
}

func (r *Ring) Levels() []log.Level { return log.AllLevels }

func (r *Ring) Fire(entry *log.Entry) error {
	b, err := r.fmt.Format(entry)
	if err != nil {
		return err
	}
	line := strings.TrimRight(string(b), "\n")

	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines[r.next] = line
	r.next = (r.next + 1) % len(r.lines)
	if r.next == 0 {
		r.full = true
	}
	return nil
}

// Lines returns the buffered lines, oldest first.
func (r *Ring) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		return append([]string(nil), r.lines[:r.next]...)
	}
	out := make([]string, 0, len(r.lines))
	out = append(out, r.lines[r.next:]...)
	return append(out, r.lines[:r.next]...)
}

// Tail returns at most n of the newest lines, oldest first.
func (r *Ring) Tail(n int) []string {
	lines := r.Lines()
	if n <= 0 || len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}
