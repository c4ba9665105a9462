package validations

import (
	"context"
	"testing"
	"time"

	pkgError "github.com/AzielCF/az-sched/pkg/error"
	"github.com/AzielCF/az-sched/scheduler/domain"
	"github.com/AzielCF/az-sched/scheduler/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() usecase.CreateScheduleInput {
	return usecase.CreateScheduleInput{
		Title:         "daily digest",
		TemplateID:    "tpl-1",
		RecipientType: domain.RecipientContact,
		ContactID:     "contact-1",
		Frequency:     domain.FrequencyDaily,
		StartDate:     time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestValidateCreateScheduleAccepts(t *testing.T) {
	require.NoError(t, ValidateCreateSchedule(context.Background(), validInput()))

	weekly := validInput()
	weekly.Frequency = domain.FrequencyWeekly
	dow := 6 // Sunday, upper bound of the Monday=0 range
	weekly.DayOfWeek = &dow
	require.NoError(t, ValidateCreateSchedule(context.Background(), weekly))

	monthly := validInput()
	monthly.Frequency = domain.FrequencyMonthly
	dom := 31
	monthly.DayOfMonth = &dom
	require.NoError(t, ValidateCreateSchedule(context.Background(), monthly))
}

func TestValidateCreateScheduleRejects(t *testing.T) {
	dowLow, dowHigh := -1, 7
	domLow, domHigh := 0, 32
	pastEnd := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		mutate func(in *usecase.CreateScheduleInput)
	}{
		{"missing title", func(in *usecase.CreateScheduleInput) { in.Title = "" }},
		{"missing template", func(in *usecase.CreateScheduleInput) { in.TemplateID = "" }},
		{"unknown frequency", func(in *usecase.CreateScheduleInput) { in.Frequency = "hourly" }},
		{"unknown recipient type", func(in *usecase.CreateScheduleInput) { in.RecipientType = "broadcast" }},
		{"contact type without contact", func(in *usecase.CreateScheduleInput) { in.ContactID = "" }},
		{"contact type with group", func(in *usecase.CreateScheduleInput) { in.GroupID = "group-1" }},
		{"group type without group", func(in *usecase.CreateScheduleInput) {
			in.RecipientType = domain.RecipientGroup
			in.ContactID = ""
		}},
		{"weekly without day_of_week", func(in *usecase.CreateScheduleInput) {
			in.Frequency = domain.FrequencyWeekly
		}},
		{"weekly day_of_week below range", func(in *usecase.CreateScheduleInput) {
			in.Frequency = domain.FrequencyWeekly
			in.DayOfWeek = &dowLow
		}},
		{"weekly day_of_week above range", func(in *usecase.CreateScheduleInput) {
			in.Frequency = domain.FrequencyWeekly
			in.DayOfWeek = &dowHigh
		}},
		{"monthly without day_of_month", func(in *usecase.CreateScheduleInput) {
			in.Frequency = domain.FrequencyMonthly
		}},
		{"monthly day_of_month below range", func(in *usecase.CreateScheduleInput) {
			in.Frequency = domain.FrequencyMonthly
			in.DayOfMonth = &domLow
		}},
		{"monthly day_of_month above range", func(in *usecase.CreateScheduleInput) {
			in.Frequency = domain.FrequencyMonthly
			in.DayOfMonth = &domHigh
		}},
		{"end_date before start_date", func(in *usecase.CreateScheduleInput) {
			in.EndDate = &pastEnd
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)

			err := ValidateCreateSchedule(context.Background(), input)
			require.Error(t, err)
			var generic pkgError.GenericError
			require.ErrorAs(t, err, &generic)
			assert.Equal(t, "VALIDATION_ERROR", generic.ErrCode())
		})
	}
}

func TestValidateTemplateMediaRules(t *testing.T) {
	text := domain.MessageTemplate{Title: "t", MediaType: domain.MediaText}
	err := ValidateTemplate(context.Background(), text)
	require.Error(t, err, "text template without content")

	text.Content = "hello"
	require.NoError(t, ValidateTemplate(context.Background(), text))

	image := domain.MessageTemplate{Title: "t", MediaType: domain.MediaImage, Content: "caption"}
	err = ValidateTemplate(context.Background(), image)
	require.Error(t, err, "media template without media_path")

	image.MediaPath = "statics/senditems/promo.jpg"
	require.NoError(t, ValidateTemplate(context.Background(), image))
}
