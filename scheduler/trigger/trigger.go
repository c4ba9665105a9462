package trigger

import (
	"context"
	"time"

	"github.com/AzielCF/az-sched/scheduler/domain"
)

// EntryNamePrefix keys every trigger entry deterministically by schedule id.
const EntryNamePrefix = "whatsapp-schedule-"

// NameFor returns the deterministic trigger name for a schedule id.
func NameFor(scheduleID string) string {
	return EntryNamePrefix + scheduleID
}

// CronFields is the recurring half of the trigger variant. Nil optional
// fields mean "any" (cron *). DayOfWeek uses standard cron indexing,
// Sunday=0.
type CronFields struct {
	Minute     int
	Hour       int
	DayOfWeek  *int
	DayOfMonth *int
	Month      *int
}

// Entry is the declarative trigger description for one schedule: fire the
// callback with ScheduleID either once at OneShot or on the Cron recurrence.
// Exactly one of OneShot/Cron is set when Enabled.
type Entry struct {
	Name       string
	ScheduleID string
	Enabled    bool
	OneShot    *time.Time
	Cron       *CronFields
}

// Handler is the callback the substrate invokes once per due occurrence.
type Handler func(ctx context.Context, scheduleID string)

// Registry is the narrow interface the scheduler core writes its trigger
// state through. Implementations must make Upsert idempotent per entry name.
type Registry interface {
	Upsert(entry Entry) error
	Remove(name string) error
}

// EntryFor derives the trigger entry for a schedule. Entries are disabled
// when the schedule is not active or a required calendar field is missing,
// mirroring how the schedule itself refuses to recur.
func EntryFor(s *domain.Schedule) Entry {
	entry := Entry{
		Name:       NameFor(s.ID),
		ScheduleID: s.ID,
		Enabled:    s.Status == domain.StatusActive,
	}

	switch s.Frequency {
	case domain.FrequencyOnce:
		at := s.StartDate
		entry.OneShot = &at

	case domain.FrequencyDaily:
		entry.Cron = &CronFields{
			Minute: s.StartDate.Minute(),
			Hour:   s.StartDate.Hour(),
		}

	case domain.FrequencyWeekly:
		if s.DayOfWeek == nil {
			entry.Enabled = false
			return entry
		}
		// Stored convention is Monday=0; cron wants Sunday=0.
		dow := (*s.DayOfWeek + 1) % 7
		entry.Cron = &CronFields{
			Minute:    s.StartDate.Minute(),
			Hour:      s.StartDate.Hour(),
			DayOfWeek: &dow,
		}

	case domain.FrequencyMonthly:
		if s.DayOfMonth == nil {
			entry.Enabled = false
			return entry
		}
		dom := *s.DayOfMonth
		entry.Cron = &CronFields{
			Minute:     s.StartDate.Minute(),
			Hour:       s.StartDate.Hour(),
			DayOfMonth: &dom,
		}

	case domain.FrequencyYearly:
		dom := s.StartDate.Day()
		month := int(s.StartDate.Month())
		entry.Cron = &CronFields{
			Minute:     s.StartDate.Minute(),
			Hour:       s.StartDate.Hour(),
			DayOfMonth: &dom,
			Month:      &month,
		}

	default:
		entry.Enabled = false
	}

	return entry
}
