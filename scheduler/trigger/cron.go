package trigger

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CronRegistry is the in-process trigger substrate: recurring entries run on
// a robfig/cron scheduler, one-shot entries on individual timers. Entries do
// not survive a restart; callers re-upsert them from persisted schedules on
// boot.
type CronRegistry struct {
	mu      sync.Mutex
	c       *cron.Cron
	parser  cron.Parser
	handler Handler

	entries map[string]cron.EntryID
	timers  map[string]*time.Timer
}

func NewCronRegistry(handler Handler) *CronRegistry {
	return &CronRegistry{
		c: cron.New(cron.WithLocation(time.UTC)),
		parser: cron.NewParser(
			cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
		),
		handler: handler,
		entries: make(map[string]cron.EntryID),
		timers:  make(map[string]*time.Timer),
	}
}

// Start begins evaluating recurring entries. One-shot timers run regardless.
func (r *CronRegistry) Start() {
	r.c.Start()
}

// Stop halts the cron loop and cancels pending one-shot timers.
func (r *CronRegistry) Stop() {
	r.c.Stop()
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, timer := range r.timers {
		timer.Stop()
		delete(r.timers, name)
	}
}

func (r *CronRegistry) Upsert(entry Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeLocked(entry.Name)

	if !entry.Enabled {
		return nil
	}

	switch {
	case entry.OneShot != nil:
		delay := time.Until(*entry.OneShot)
		if delay < 0 {
			delay = 0
		}
		name, scheduleID := entry.Name, entry.ScheduleID
		r.timers[name] = time.AfterFunc(delay, func() {
			r.mu.Lock()
			delete(r.timers, name)
			r.mu.Unlock()
			r.handler(context.Background(), scheduleID)
		})
		return nil

	case entry.Cron != nil:
		spec := cronSpec(*entry.Cron)
		if _, err := r.parser.Parse(spec); err != nil {
			return fmt.Errorf("invalid cron spec %q for %s: %w", spec, entry.Name, err)
		}
		scheduleID := entry.ScheduleID
		id, err := r.c.AddFunc(spec, func() {
			r.handler(context.Background(), scheduleID)
		})
		if err != nil {
			return err
		}
		r.entries[entry.Name] = id
		return nil
	}

	logrus.Warnf("[TRIGGER] entry %s enabled but carries no spec, skipping", entry.Name)
	return nil
}

func (r *CronRegistry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(name)
	return nil
}

func (r *CronRegistry) removeLocked(name string) {
	if id, ok := r.entries[name]; ok {
		r.c.Remove(id)
		delete(r.entries, name)
	}
	if timer, ok := r.timers[name]; ok {
		timer.Stop()
		delete(r.timers, name)
	}
}

// Len reports how many entries are currently registered.
func (r *CronRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries) + len(r.timers)
}

func cronSpec(f CronFields) string {
	field := func(v *int) string {
		if v == nil {
			return "*"
		}
		return strconv.Itoa(*v)
	}
	return fmt.Sprintf("%d %d %s %s %s",
		f.Minute, f.Hour, field(f.DayOfMonth), field(f.Month), field(f.DayOfWeek))
}
