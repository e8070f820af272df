// Package schedule runs recurring housekeeping jobs on a worker pool.
//
//	s := schedule.New(workerpool.New("schedule", 2))
//	s.Every(time.Minute).Name("sessions:evict").Run(evictSessions)
//	s.MustCron("0 3 * * *").Name("catalog:sync").WithoutOverlapping().Run(sync)
//	s.Start(ctx)
package schedule

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kashvishop/storefront/pkg/logger"
	"github.com/kashvishop/storefront/pkg/workerpool"
)

// Task is one run of a scheduled job. ctx ends when the scheduler stops.
type Task func(ctx context.Context)

type entry struct {
	name      string
	interval  time.Duration
	cron      []field
	cronExpr  string
	noOverlap bool
	task      Task

	mu      sync.Mutex
	lastRun time.Time
	running bool
}

// Scheduler checks every entry once a second and hands due ones to its pool.
type Scheduler struct {
	pool *workerpool.Pool

	mu      sync.Mutex
	entries []*entry
}

func New(pool *workerpool.Pool) *Scheduler {
	return &Scheduler{pool: pool}
}

// Builder configures one entry until Run registers it.
type Builder struct {
	s *Scheduler
	e *entry
}

// Every runs the task every d, starting at the first tick.
func (s *Scheduler) Every(d time.Duration) *Builder {
	return &Builder{s: s, e: &entry{interval: d}}
}

// Cron runs the task at minutes matching a 5-field expression
// (minute hour day-of-month month day-of-week).
func (s *Scheduler) Cron(expr string) (*Builder, error) {
	fields, err := parseCron(expr)
	if err != nil {
		return nil, err
	}
	return &Builder{s: s, e: &entry{cron: fields, cronExpr: expr}}, nil
}

// MustCron is Cron for expressions known to be valid.
func (s *Scheduler) MustCron(expr string) *Builder {
	b, err := s.Cron(expr)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) Name(name string) *Builder {
	b.e.name = name
	return b
}

// WithoutOverlapping skips a run while the previous one is still going.
func (b *Builder) WithoutOverlapping() *Builder {
	b.e.noOverlap = true
	return b
}

// Run registers the entry.
func (b *Builder) Run(task Task) {
	b.e.task = task

	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	if b.e.name == "" {
		b.e.name = fmt.Sprintf("task-%d", len(b.s.entries)+1)
	}
	b.s.entries = append(b.s.entries, b.e)
}

// Start ticks in the background until ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		logger.Info("schedule: started", "entries", len(s.List()))
		for {
			select {
			case <-ctx.Done():
				logger.Info("schedule: stopped")
				return
			case now := <-ticker.C:
				s.tick(ctx, now)
			}
		}
	}()
}

// List describes every entry as "name [frequency]".
func (s *Scheduler) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		freq := e.cronExpr
		if freq == "" {
			freq = "every " + e.interval.String()
		}
		out = append(out, fmt.Sprintf("%s [%s]", e.name, freq))
	}
	return out
}

func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	s.mu.Lock()
	current := append([]*entry(nil), s.entries...)
	s.mu.Unlock()

	for _, e := range current {
		s.dispatch(ctx, e, now)
	}
}

func (s *Scheduler) dispatch(ctx context.Context, e *entry, now time.Time) {
	e.mu.Lock()
	if !e.due(now) {
		e.mu.Unlock()
		return
	}
	if e.noOverlap && e.running {
		e.mu.Unlock()
		logger.Warn("schedule: previous run still going", "task", e.name)
		return
	}
	e.lastRun = now
	e.running = true
	e.mu.Unlock()

	err := s.pool.Submit(func() {
		defer func() {
			e.mu.Lock()
			e.running = false
			e.mu.Unlock()
		}()

		start := time.Now()
		e.task(ctx)
		logger.Debug("schedule: task done", "task", e.name, "took", time.Since(start))
	})
	if err != nil {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		logger.Warn("schedule: task not queued", "task", e.name, "error", err)
	}
}

// due must be called with e.mu held.
func (e *entry) due(now time.Time) bool {
	if e.cron != nil {
		minute := now.Truncate(time.Minute)
		return matchCron(e.cron, now) && !e.lastRun.Truncate(time.Minute).Equal(minute)
	}
	return e.lastRun.IsZero() || now.Sub(e.lastRun) >= e.interval
}

// ------------------- cron -------------------

// field matches one cron position. An empty set means "*".
type field struct {
	any    bool
	values map[int]bool
}

var bounds = [5][2]int{{0, 59}, {0, 23}, {1, 31}, {1, 12}, {0, 6}}

var errCron = errors.New("schedule: invalid cron expression")

// parseCron accepts "*", "*/step", "a", "a-b" and comma lists of those.
func parseCron(expr string) ([]field, error) {
	parts := strings.Fields(expr)
	if len(parts) != 5 {
		return nil, fmt.Errorf("%w %q: want 5 fields", errCron, expr)
	}

	fields := make([]field, 5)
	for i, part := range parts {
		lo, hi := bounds[i][0], bounds[i][1]
		if part == "*" {
			fields[i] = field{any: true}
			continue
		}

		f := field{values: map[int]bool{}}
		for _, item := range strings.Split(part, ",") {
			from, to, step := lo, hi, 1

			switch {
			case strings.HasPrefix(item, "*/"):
				n, err := strconv.Atoi(item[2:])
				if err != nil || n <= 0 {
					return nil, fmt.Errorf("%w %q: bad step %q", errCron, expr, item)
				}
				step = n
			case strings.Contains(item, "-"):
				a, b, _ := strings.Cut(item, "-")
				x, errA := strconv.Atoi(a)
				y, errB := strconv.Atoi(b)
				if errA != nil || errB != nil || x > y {
					return nil, fmt.Errorf("%w %q: bad range %q", errCron, expr, item)
				}
				from, to = x, y
			default:
				n, err := strconv.Atoi(item)
				if err != nil {
					return nil, fmt.Errorf("%w %q: bad value %q", errCron, expr, item)
				}
				from, to = n, n
			}

			if from < lo || to > hi {
				return nil, fmt.Errorf("%w %q: %q out of range %d-%d", errCron, expr, item, lo, hi)
			}
			for v := from; v <= to; v += step {
				f.values[v] = true
			}
		}
		fields[i] = f
	}
	return fields, nil
}

func matchCron(fields []field, t time.Time) bool {
	values := [5]int{t.Minute(), t.Hour(), t.Day(), int(t.Month()), int(t.Weekday())}
	for i, f := range fields {
		if !f.any && !f.values[values[i]] {
			return false
		}
	}
	return true
}
