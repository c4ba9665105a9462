package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/AzielCF/az-sched/scheduler/domain"
	"github.com/AzielCF/az-sched/scheduler/trigger"
	"github.com/sirupsen/logrus"
)

// ScheduleUsecase manages schedule lifecycle outside of firings: CRUD,
// pause/resume and keeping the trigger substrate in step with every save.
type ScheduleUsecase struct {
	schedules domain.ScheduleRepository
	contacts  domain.ContactRepository
	groups    domain.GroupRepository
	templates domain.TemplateRepository
	logs      domain.LogRepository
	registry  trigger.Registry
}

func NewScheduleUsecase(schedules domain.ScheduleRepository, contacts domain.ContactRepository, groups domain.GroupRepository, templates domain.TemplateRepository, logs domain.LogRepository, registry trigger.Registry) *ScheduleUsecase {
	return &ScheduleUsecase{
		schedules: schedules,
		contacts:  contacts,
		groups:    groups,
		templates: templates,
		logs:      logs,
		registry:  registry,
	}
}

// CreateScheduleInput carries the writable schedule fields.
type CreateScheduleInput struct {
	Title         string
	TemplateID    string
	RecipientType domain.RecipientType
	ContactID     string
	GroupID       string
	Frequency     domain.Frequency
	StartDate     time.Time
	EndDate       *time.Time
	DayOfWeek     *int
	DayOfMonth    *int
}

func (u *ScheduleUsecase) Create(ctx context.Context, input CreateScheduleInput) (*domain.Schedule, error) {
	if err := u.checkReferences(ctx, input); err != nil {
		return nil, err
	}

	start := input.StartDate.UTC()
	s := &domain.Schedule{
		Title:         input.Title,
		TemplateID:    input.TemplateID,
		RecipientType: input.RecipientType,
		ContactID:     input.ContactID,
		GroupID:       input.GroupID,
		Frequency:     input.Frequency,
		StartDate:     start,
		EndDate:       input.EndDate,
		DayOfWeek:     input.DayOfWeek,
		DayOfMonth:    input.DayOfMonth,
		Status:        domain.StatusActive,
		NextExecution: &start,
	}

	if err := u.schedules.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}
	u.syncTrigger(s)
	return u.schedules.GetByID(ctx, s.ID)
}

func (u *ScheduleUsecase) Get(ctx context.Context, id string) (*domain.Schedule, error) {
	return u.schedules.GetByID(ctx, id)
}

func (u *ScheduleUsecase) List(ctx context.Context, filter domain.ScheduleFilter) ([]*domain.Schedule, error) {
	return u.schedules.List(ctx, filter)
}

// Upcoming lists active schedules whose next run is still ahead.
func (u *ScheduleUsecase) Upcoming(ctx context.Context) ([]*domain.Schedule, error) {
	status := domain.StatusActive
	now := time.Now().UTC()
	return u.schedules.List(ctx, domain.ScheduleFilter{
		Status:      &status,
		NextFrom:    &now,
		OrderByNext: true,
	})
}

// Overdue lists active schedules whose recorded next run is already past,
// which usually means the trigger substrate has not caught up yet.
func (u *ScheduleUsecase) Overdue(ctx context.Context) ([]*domain.Schedule, error) {
	status := domain.StatusActive
	now := time.Now().UTC()
	return u.schedules.List(ctx, domain.ScheduleFilter{
		Status:      &status,
		NextUntil:   &now,
		OrderByNext: true,
	})
}

func (u *ScheduleUsecase) Update(ctx context.Context, id string, input CreateScheduleInput) (*domain.Schedule, error) {
	s, err := u.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.IsTerminal() {
		return nil, domain.ErrInvalidTransition
	}
	if err := u.checkReferences(ctx, input); err != nil {
		return nil, err
	}

	start := input.StartDate.UTC()
	s.Title = input.Title
	s.TemplateID = input.TemplateID
	s.RecipientType = input.RecipientType
	s.ContactID = input.ContactID
	s.GroupID = input.GroupID
	s.Frequency = input.Frequency
	s.StartDate = start
	s.EndDate = input.EndDate
	s.DayOfWeek = input.DayOfWeek
	s.DayOfMonth = input.DayOfMonth

	// Re-anchoring resets the series to the new start.
	if s.Status == domain.StatusActive {
		s.NextExecution = &start
	} else {
		s.NextExecution = nil
	}

	if err := u.schedules.Update(ctx, s); err != nil {
		return nil, err
	}
	u.syncTrigger(s)
	return u.schedules.GetByID(ctx, id)
}

// Pause suspends an active schedule; its trigger entry is disabled, not
// removed.
func (u *ScheduleUsecase) Pause(ctx context.Context, id string) (*domain.Schedule, error) {
	return u.transition(ctx, id, domain.StatusActive, domain.StatusPaused)
}

// Resume reactivates a paused schedule. A missing next execution is reseeded
// from the anchor; catch-up to the present happens on the next firing.
func (u *ScheduleUsecase) Resume(ctx context.Context, id string) (*domain.Schedule, error) {
	return u.transition(ctx, id, domain.StatusPaused, domain.StatusActive)
}

func (u *ScheduleUsecase) transition(ctx context.Context, id string, from, to domain.ScheduleStatus) (*domain.Schedule, error) {
	s, err := u.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Status != from {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, s.Status, to)
	}
	s.Status = to
	if to == domain.StatusActive && s.NextExecution == nil {
		start := s.StartDate
		s.NextExecution = &start
	}
	if to != domain.StatusActive {
		s.NextExecution = nil
	}
	if err := u.schedules.Update(ctx, s); err != nil {
		return nil, err
	}
	u.syncTrigger(s)
	return s, nil
}

func (u *ScheduleUsecase) Delete(ctx context.Context, id string) error {
	if err := u.schedules.Delete(ctx, id); err != nil {
		return err
	}
	if err := u.registry.Remove(trigger.NameFor(id)); err != nil {
		logrus.WithError(err).Errorf("[SCHEDULE] failed to remove trigger for %s", id)
	}
	return nil
}

// ResyncTriggers re-registers every schedule's trigger entry. Called on boot
// because the in-process registry starts empty.
func (u *ScheduleUsecase) ResyncTriggers(ctx context.Context) error {
	schedules, err := u.schedules.List(ctx, domain.ScheduleFilter{})
	if err != nil {
		return err
	}
	for _, s := range schedules {
		u.syncTrigger(s)
	}
	logrus.Infof("[SCHEDULE] resynced %d trigger entries", len(schedules))
	return nil
}

// Stats aggregates schedule and log status counts for the dashboard.
type Stats struct {
	ScheduleSummary map[domain.ScheduleStatus]int64 `json:"schedule_summary"`
	LogSummary      map[domain.LogStatus]int64      `json:"log_summary"`
	TotalSchedules  int64                           `json:"total_schedules"`
	TotalLogs       int64                           `json:"total_logs"`
}

func (u *ScheduleUsecase) DashboardStats(ctx context.Context) (Stats, error) {
	scheduleCounts, err := u.schedules.CountByStatus(ctx)
	if err != nil {
		return Stats{}, err
	}
	logCounts, err := u.logs.CountByStatus(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{
		ScheduleSummary: scheduleCounts,
		LogSummary:      logCounts,
	}
	for _, c := range scheduleCounts {
		stats.TotalSchedules += c
	}
	for _, c := range logCounts {
		stats.TotalLogs += c
	}
	return stats, nil
}

func (u *ScheduleUsecase) checkReferences(ctx context.Context, input CreateScheduleInput) error {
	if _, err := u.templates.GetByID(ctx, input.TemplateID); err != nil {
		return err
	}
	switch input.RecipientType {
	case domain.RecipientContact:
		if input.ContactID == "" || input.GroupID != "" {
			return domain.ErrScheduleMisconfigured
		}
		if _, err := u.contacts.GetByID(ctx, input.ContactID); err != nil {
			return err
		}
	case domain.RecipientGroup:
		if input.GroupID == "" || input.ContactID != "" {
			return domain.ErrScheduleMisconfigured
		}
		if _, err := u.groups.GetByID(ctx, input.GroupID); err != nil {
			return err
		}
	default:
		return domain.ErrScheduleMisconfigured
	}
	return nil
}

func (u *ScheduleUsecase) syncTrigger(s *domain.Schedule) {
	if err := u.registry.Upsert(trigger.EntryFor(s)); err != nil {
		logrus.WithError(err).Errorf("[SCHEDULE] failed to sync trigger for %s", s.ID)
	}
}
