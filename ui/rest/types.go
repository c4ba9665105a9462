package rest

import (
	"errors"

	"github.com/dustin/go-humanize"

	pkgError "github.com/AzielCF/az-sched/pkg/error"
	"github.com/AzielCF/az-sched/scheduler/domain"
)

// scheduleResponse decorates a schedule with a human-readable countdown, so
// dashboards don't have to compute it client-side.
type scheduleResponse struct {
	*domain.Schedule
	NextRunIn string `json:"next_run_in,omitempty"`
	LastRunAt string `json:"last_run_at,omitempty"`
}

func toScheduleResponse(s *domain.Schedule) scheduleResponse {
	resp := scheduleResponse{Schedule: s}
	if s.NextExecution != nil {
		resp.NextRunIn = humanize.Time(*s.NextExecution)
	}
	if s.LastSent != nil {
		resp.LastRunAt = humanize.Time(*s.LastSent)
	}
	return resp
}

func toScheduleResponses(schedules []*domain.Schedule) []scheduleResponse {
	out := make([]scheduleResponse, 0, len(schedules))
	for _, s := range schedules {
		out = append(out, toScheduleResponse(s))
	}
	return out
}

// panicIfNeeded translates domain sentinels into typed API errors before
// handing them to the recovery middleware.
func panicIfNeeded(err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, domain.ErrScheduleNotFound),
		errors.Is(err, domain.ErrContactNotFound),
		errors.Is(err, domain.ErrGroupNotFound),
		errors.Is(err, domain.ErrTemplateNotFound),
		errors.Is(err, domain.ErrLogNotFound):
		panic(pkgError.NotFoundError(err.Error()))
	case errors.Is(err, domain.ErrScheduleMisconfigured),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrScheduleNotActive),
		errors.Is(err, domain.ErrDuplicateContact),
		errors.Is(err, domain.ErrDuplicateGroup):
		panic(pkgError.ValidationError(err.Error()))
	default:
		panic(err)
	}
}
