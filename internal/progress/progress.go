// Package progress provides the progress and cooperative cancellation sink used by
// long-running aggregation calls.
package progress

import (
	"sync"
	"sync/atomic"

	"github.com/ops4go/phacts/internal/logger"
)

// Unknown is passed to Begin when the amount of work is not known up front.
const Unknown = -1

// Monitor receives progress reports and answers cancellation queries.
// Implementations must be safe for use from the goroutine running the task
// while another goroutine cancels it.
type Monitor interface {
	Begin(name string, totalWork int)
	Worked(units int)
	SubTask(name string)
	IsCancelled() bool
}

type nullMonitor struct{}

func (nullMonitor) Begin(string, int) {}
func (nullMonitor) Worked(int) {}
func (nullMonitor) SubTask(string) {}
func (nullMonitor) IsCancelled() bool { return false }

// Null returns a monitor that ignores reports and is never cancelled.
func Null() Monitor {
	return nullMonitor{}
}

// OrNull returns m, or the null monitor when m is nil.
func OrNull(m Monitor) Monitor {
	if m == nil {
		return Null()
	}
	return m
}

// Tracker is a cancellable Monitor that logs task progress.
type Tracker struct {
	log       logger.Logger
	cancelled atomic.Bool

	mu         sync.Mutex
	task       string
	subTask    string
	total      int
	done       int
	lastDecile int
}

// Snapshot is a point-in-time view of a Tracker.
type Snapshot struct {
	Task      string `json:"task"`
	SubTask   string `json:"sub_task,omitempty"`
	Total     int    `json:"total"`
	Done      int    `json:"done"`
	Cancelled bool   `json:"cancelled"`
}

// NewTracker returns a tracker that logs through log, or the global logger when nil.
func NewTracker(log logger.Logger) *Tracker {
	if log == nil {
		log = logger.Global().Module("progress")
	}
	return &Tracker{log: log}
}

func (t *Tracker) Begin(name string, totalWork int) {
	t.mu.Lock()
	t.task = name
	t.subTask = ""
	t.total = totalWork
	t.done = 0
	t.lastDecile = 0
	t.mu.Unlock()

	t.log.Info("task started", logger.String("task", name), logger.Int("total_work", totalWork))
}

// Worked adds units of completed work. Progress is logged at each new 10% step
// when the total is known.
func (t *Tracker) Worked(units int) {
	t.mu.Lock()
	t.done += units
	done, total, task := t.done, t.total, t.task
	pct := -1
	if total > 0 {
		if p := min(done*100/total, 100); p/10 > t.lastDecile {
			t.lastDecile = p / 10
			pct = p
		}
	}
	t.mu.Unlock()

	if pct >= 0 {
		t.log.Info("task progress",
			logger.String("task", task),
			logger.Int("done", done),
			logger.Int("total", total),
			logger.Int("percent", pct))
	}
}

func (t *Tracker) SubTask(name string) {
	t.mu.Lock()
	t.subTask = name
	t.mu.Unlock()

	t.log.Debug("subtask", logger.String("name", name))
}

func (t *Tracker) IsCancelled() bool {
	return t.cancelled.Load()
}

// Cancel requests cooperative cancellation. The running task stops at its next
// entity boundary.
func (t *Tracker) Cancel() {
	if t.cancelled.CompareAndSwap(false, true) {
		t.log.Info("cancellation requested")
	}
}

// Snapshot returns the tracker's current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		Task:      t.task,
		SubTask:   t.subTask,
		Total:     t.total,
		Done:      t.done,
		Cancelled: t.cancelled.Load(),
	}
}
