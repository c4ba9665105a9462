package validations

import (
	"context"

	pkgError "github.com/AzielCF/az-sched/pkg/error"
	"github.com/AzielCF/az-sched/scheduler/domain"
	"github.com/AzielCF/az-sched/scheduler/usecase"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func ValidateCreateSchedule(ctx context.Context, request usecase.CreateScheduleInput) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Title, validation.Required),
		validation.Field(&request.TemplateID, validation.Required),
		validation.Field(&request.RecipientType, validation.Required, validation.In(
			domain.RecipientContact, domain.RecipientGroup,
		)),
		validation.Field(&request.Frequency, validation.Required, validation.In(
			domain.FrequencyOnce, domain.FrequencyDaily, domain.FrequencyWeekly,
			domain.FrequencyMonthly, domain.FrequencyYearly,
		)),
		validation.Field(&request.StartDate, validation.Required),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	switch request.RecipientType {
	case domain.RecipientContact:
		if request.ContactID == "" {
			return pkgError.ValidationError("contact_id is required when recipient_type is contact")
		}
		if request.GroupID != "" {
			return pkgError.ValidationError("group_id must be empty when recipient_type is contact")
		}
	case domain.RecipientGroup:
		if request.GroupID == "" {
			return pkgError.ValidationError("group_id is required when recipient_type is group")
		}
		if request.ContactID != "" {
			return pkgError.ValidationError("contact_id must be empty when recipient_type is group")
		}
	}

	if request.Frequency == domain.FrequencyWeekly {
		if request.DayOfWeek == nil {
			return pkgError.ValidationError("day_of_week is required for weekly schedules")
		}
		if *request.DayOfWeek < 0 || *request.DayOfWeek > 6 {
			return pkgError.ValidationError("day_of_week must be between 0 (Monday) and 6 (Sunday)")
		}
	}
	if request.Frequency == domain.FrequencyMonthly {
		if request.DayOfMonth == nil {
			return pkgError.ValidationError("day_of_month is required for monthly schedules")
		}
		if *request.DayOfMonth < 1 || *request.DayOfMonth > 31 {
			return pkgError.ValidationError("day_of_month must be between 1 and 31")
		}
	}
	if request.EndDate != nil && !request.EndDate.After(request.StartDate) {
		return pkgError.ValidationError("end_date must be after start_date")
	}

	return nil
}
