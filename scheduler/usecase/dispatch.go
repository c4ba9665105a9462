package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AzielCF/az-sched/pkg/utils"
	"github.com/AzielCF/az-sched/scheduler/domain"
	"github.com/AzielCF/az-sched/scheduler/trigger"
	"github.com/sirupsen/logrus"
)

const (
	defaultLoadRetries = 3
	defaultRetryDelay  = 5 * time.Second
)

// Dispatcher owns one firing of a schedule end to end: load under lock,
// send one attempt per resolved recipient through the gateway, log each
// attempt, roll the schedule forward and reconcile its terminal status.
type Dispatcher struct {
	schedules domain.ScheduleRepository
	logs      domain.LogRepository
	gateway   domain.MessageGateway
	registry  trigger.Registry

	loadRetries int
	retryDelay  time.Duration
	now         func() time.Time
}

func NewDispatcher(schedules domain.ScheduleRepository, logs domain.LogRepository, gateway domain.MessageGateway, registry trigger.Registry) *Dispatcher {
	return &Dispatcher{
		schedules:   schedules,
		logs:        logs,
		gateway:     gateway,
		registry:    registry,
		loadRetries: defaultLoadRetries,
		retryDelay:  defaultRetryDelay,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithRetryPolicy overrides the transient-load retry policy.
func (d *Dispatcher) WithRetryPolicy(retries int, delay time.Duration) *Dispatcher {
	if retries > 0 {
		d.loadRetries = retries
	}
	if delay > 0 {
		d.retryDelay = delay
	}
	return d
}

// Fire executes one firing for scheduleID in three phases: claim the
// schedule under a short row lock, run the recipient loop with the lock
// released (gateway calls can block for the full request timeout), then
// re-lock for the atomic status/last_sent/next_execution write-back. A
// schedule that vanished between trigger and load is absorbed silently.
func (d *Dispatcher) Fire(ctx context.Context, scheduleID string) error {
	snapshot, err := d.claim(ctx, scheduleID)
	if err != nil {
		return err
	}
	if snapshot == nil {
		// Inactive or gone; nothing to fire.
		return nil
	}

	state := d.execute(ctx, snapshot)

	var after *domain.Schedule
	err = d.schedules.Locked(ctx, scheduleID, func(s *domain.Schedule) (*domain.ExecutionState, error) {
		if s.Status != domain.StatusActive {
			// Paused or terminated while sends were in flight. Keep the
			// operator's state; the log entries already record the attempt.
			state = &domain.ExecutionState{
				Status:        s.Status,
				LastSent:      state.LastSent,
				NextExecution: s.NextExecution,
			}
		}
		c := *s
		c.Status = state.Status
		c.LastSent = state.LastSent
		c.NextExecution = state.NextExecution
		after = &c
		return state, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrScheduleNotFound) {
			logrus.Warnf("[DISPATCH] schedule %s deleted mid-firing, dropping execution state", scheduleID)
			return nil
		}
		logrus.WithError(err).Errorf("[DISPATCH] failed to persist firing of schedule %s", scheduleID)
		return err
	}

	// The trigger entry must track the persisted status: disabled for
	// terminal schedules, re-derived otherwise.
	if err := d.registry.Upsert(trigger.EntryFor(after)); err != nil {
		logrus.WithError(err).Errorf("[DISPATCH] failed to resync trigger for schedule %s", after.ID)
	}
	return nil
}

// claim loads the schedule under a row lock and applies the active guard.
// The lock covers only the read; it is released before any send happens.
// Returns nil without error when the schedule is inactive or missing.
func (d *Dispatcher) claim(ctx context.Context, scheduleID string) (*domain.Schedule, error) {
	var snapshot *domain.Schedule
	for attempt := 1; ; attempt++ {
		err := d.schedules.Locked(ctx, scheduleID, func(s *domain.Schedule) (*domain.ExecutionState, error) {
			if s.Status != domain.StatusActive {
				logrus.Infof("[DISPATCH] schedule %s is %s, skipping firing", s.ID, s.Status)
				return nil, nil
			}
			c := *s
			snapshot = &c
			return nil, nil
		})
		if err == nil {
			return snapshot, nil
		}
		if errors.Is(err, domain.ErrScheduleNotFound) {
			logrus.Warnf("[DISPATCH] schedule %s not found, trigger is stale", scheduleID)
			return nil, nil
		}
		if attempt >= d.loadRetries {
			logrus.WithError(err).Errorf("[DISPATCH] firing of schedule %s failed", scheduleID)
			return nil, err
		}
		logrus.WithError(err).Warnf("[DISPATCH] transient load failure for schedule %s, retry %d/%d", scheduleID, attempt, d.loadRetries)
		select {
		case <-time.After(d.retryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// execute runs the recipient loop on a claimed snapshot and computes the
// write-back state. It runs with no lock held; log entries go straight to
// the log store so they survive even if the final write-back races a delete.
func (d *Dispatcher) execute(ctx context.Context, s *domain.Schedule) *domain.ExecutionState {
	now := d.now()

	recipients, err := resolveRecipients(s)
	if err != nil {
		logrus.Errorf("[DISPATCH] schedule %s misconfigured: %v", s.ID, err)
		return &domain.ExecutionState{
			Status:   domain.StatusFailed,
			LastSent: &now,
		}
	}

	allSent := true
	for _, recipient := range recipients {
		entry := &domain.MessageLog{
			ScheduleID: s.ID,
			Recipient:  recipient,
			Status:     domain.LogPending,
			SentAt:     now,
		}
		if err := d.logs.Create(ctx, entry); err != nil {
			logrus.WithError(err).Errorf("[DISPATCH] failed to create log for schedule %s", s.ID)
			allSent = false
			continue
		}

		result := d.send(ctx, s.Template, recipient)
		finalizedAt := d.now()
		if result.Success {
			if err := d.logs.Finalize(ctx, entry.ID, domain.LogSent, result.MessageID, "", finalizedAt); err != nil {
				logrus.WithError(err).Errorf("[DISPATCH] failed to finalize log %s", entry.ID)
			}
			logrus.Infof("[DISPATCH] schedule %s sent to %s (gateway id %s)", s.ID, recipient, result.MessageID)
		} else {
			allSent = false
			if err := d.logs.Finalize(ctx, entry.ID, domain.LogFailed, "", result.Error, finalizedAt); err != nil {
				logrus.WithError(err).Errorf("[DISPATCH] failed to finalize log %s", entry.ID)
			}
			logrus.Errorf("[DISPATCH] schedule %s send to %s failed: %s", s.ID, recipient, result.Error)
		}
	}

	next := domain.NextExecution(s, now)
	exceededEnd := false
	if next != nil && s.EndDate != nil && next.After(*s.EndDate) {
		// Series bounded by end_date: terminate cleanly instead of firing past it.
		next = nil
		exceededEnd = true
	}

	status := domain.StatusActive
	if next == nil {
		switch {
		case s.Frequency == domain.FrequencyOnce && allSent:
			status = domain.StatusCompleted
		case s.Frequency != domain.FrequencyOnce && s.EndDate != nil && (exceededEnd || !s.EndDate.After(now)):
			status = domain.StatusCompleted
		default:
			status = domain.StatusFailed
		}
	}
	if s.Frequency == domain.FrequencyOnce && !allSent {
		// A one-shot that did not fully deliver is failed no matter what.
		status = domain.StatusFailed
	}

	return &domain.ExecutionState{
		Status:        status,
		LastSent:      &now,
		NextExecution: next,
	}
}

// send dispatches one attempt for one recipient. Unknown media kinds and
// missing payloads fail locally without touching the gateway.
func (d *Dispatcher) send(ctx context.Context, t *domain.MessageTemplate, recipient string) domain.SendResult {
	switch t.MediaType {
	case domain.MediaText:
		return d.gateway.SendText(ctx, recipient, t.Content)
	case domain.MediaImage, domain.MediaDocument, domain.MediaAudio:
		if t.MediaPath == "" {
			return domain.SendResult{Error: fmt.Sprintf("media path not set for %s template %s", t.MediaType, t.ID)}
		}
		return d.gateway.SendMedia(ctx, recipient, t.Content, t.MediaPath, t.MediaType)
	default:
		return domain.SendResult{Error: fmt.Sprintf("unsupported media type %q", t.MediaType)}
	}
}

// resolveRecipients derives the address list for a firing. Today this is
// always a single entry (one contact phone or one group broadcast JID), but
// the dispatcher iterates so group member fan-out stays a data change.
func resolveRecipients(s *domain.Schedule) ([]string, error) {
	if s.Template == nil {
		return nil, fmt.Errorf("%w: message template reference is dangling", domain.ErrScheduleMisconfigured)
	}
	switch s.RecipientType {
	case domain.RecipientContact:
		if s.Contact == nil {
			return nil, fmt.Errorf("%w: recipient_type is contact but no contact is linked", domain.ErrScheduleMisconfigured)
		}
		return []string{utils.FormatPhoneNumber(s.Contact.PhoneNumber)}, nil
	case domain.RecipientGroup:
		if s.Group == nil {
			return nil, fmt.Errorf("%w: recipient_type is group but no group is linked", domain.ErrScheduleMisconfigured)
		}
		return []string{utils.FormatGroupID(s.Group.GroupID)}, nil
	}
	return nil, fmt.Errorf("%w: unknown recipient type %q", domain.ErrScheduleMisconfigured, s.RecipientType)
}
