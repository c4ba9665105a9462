package rest

import (
	"time"

	"github.com/AzielCF/az-sched/pkg/utils"
	"github.com/AzielCF/az-sched/scheduler/domain"
	"github.com/AzielCF/az-sched/scheduler/usecase"
	"github.com/AzielCF/az-sched/validations"
	"github.com/gofiber/fiber/v2"
)

type Schedule struct {
	Service    *usecase.ScheduleUsecase
	Dispatcher *usecase.Dispatcher
}

func InitRestSchedule(app fiber.Router, service *usecase.ScheduleUsecase, dispatcher *usecase.Dispatcher) Schedule {
	rest := Schedule{Service: service, Dispatcher: dispatcher}
	app.Post("/schedules", rest.Create)
	app.Get("/schedules", rest.List)
	app.Get("/schedules/upcoming", rest.Upcoming)
	app.Get("/schedules/overdue", rest.Overdue)
	app.Get("/schedules/:id", rest.Get)
	app.Put("/schedules/:id", rest.Update)
	app.Delete("/schedules/:id", rest.Delete)
	app.Post("/schedules/:id/pause", rest.Pause)
	app.Post("/schedules/:id/resume", rest.Resume)
	app.Post("/schedules/:id/fire", rest.Fire)
	app.Get("/dashboard/stats", rest.DashboardStats)
	return rest
}

type scheduleRequest struct {
	Title         string     `json:"title"`
	TemplateID    string     `json:"template_id"`
	RecipientType string     `json:"recipient_type"`
	ContactID     string     `json:"contact_id"`
	GroupID       string     `json:"group_id"`
	Frequency     string     `json:"frequency"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	DayOfWeek     *int       `json:"day_of_week"`
	DayOfMonth    *int       `json:"day_of_month"`
}

func (r scheduleRequest) toInput() usecase.CreateScheduleInput {
	return usecase.CreateScheduleInput{
		Title:         r.Title,
		TemplateID:    r.TemplateID,
		RecipientType: domain.RecipientType(r.RecipientType),
		ContactID:     r.ContactID,
		GroupID:       r.GroupID,
		Frequency:     domain.Frequency(r.Frequency),
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		DayOfWeek:     r.DayOfWeek,
		DayOfMonth:    r.DayOfMonth,
	}
}

func (controller *Schedule) Create(c *fiber.Ctx) error {
	var request scheduleRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	input := request.toInput()
	panicIfNeeded(validations.ValidateCreateSchedule(c.UserContext(), input))

	schedule, err := controller.Service.Create(c.UserContext(), input)
	panicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success create schedule",
		Results: toScheduleResponse(schedule),
	})
}

func (controller *Schedule) List(c *fiber.Ctx) error {
	filter := domain.ScheduleFilter{
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	}
	if v := c.Query("status"); v != "" {
		status := domain.ScheduleStatus(v)
		filter.Status = &status
	}

	schedules, err := controller.Service.List(c.UserContext(), filter)
	panicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch schedules",
		Results: toScheduleResponses(schedules),
	})
}

func (controller *Schedule) Upcoming(c *fiber.Ctx) error {
	schedules, err := controller.Service.Upcoming(c.UserContext())
	panicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch upcoming schedules",
		Results: toScheduleResponses(schedules),
	})
}

func (controller *Schedule) Overdue(c *fiber.Ctx) error {
	schedules, err := controller.Service.Overdue(c.UserContext())
	panicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch overdue schedules",
		Results: toScheduleResponses(schedules),
	})
}

func (controller *Schedule) Get(c *fiber.Ctx) error {
	schedule, err := controller.Service.Get(c.UserContext(), c.Params("id"))
	panicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch schedule",
		Results: toScheduleResponse(schedule),
	})
}

func (controller *Schedule) Update(c *fiber.Ctx) error {
	var request scheduleRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	input := request.toInput()
	panicIfNeeded(validations.ValidateCreateSchedule(c.UserContext(), input))

	schedule, err := controller.Service.Update(c.UserContext(), c.Params("id"), input)
	panicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success update schedule",
		Results: toScheduleResponse(schedule),
	})
}

func (controller *Schedule) Delete(c *fiber.Ctx) error {
	err := controller.Service.Delete(c.UserContext(), c.Params("id"))
	panicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success delete schedule",
	})
}

func (controller *Schedule) Pause(c *fiber.Ctx) error {
	schedule, err := controller.Service.Pause(c.UserContext(), c.Params("id"))
	panicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success pause schedule",
		Results: toScheduleResponse(schedule),
	})
}

func (controller *Schedule) Resume(c *fiber.Ctx) error {
	schedule, err := controller.Service.Resume(c.UserContext(), c.Params("id"))
	panicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success resume schedule",
		Results: toScheduleResponse(schedule),
	})
}

// Fire runs one firing immediately, outside the trigger substrate. The
// schedule still has to be active; recurrence rolls forward as usual.
func (controller *Schedule) Fire(c *fiber.Ctx) error {
	id := c.Params("id")
	err := controller.Dispatcher.Fire(c.UserContext(), id)
	panicIfNeeded(err)

	schedule, err := controller.Service.Get(c.UserContext(), id)
	panicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fire schedule",
		Results: toScheduleResponse(schedule),
	})
}

func (controller *Schedule) DashboardStats(c *fiber.Ctx) error {
	stats, err := controller.Service.DashboardStats(c.UserContext())
	panicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch dashboard stats",
		Results: stats,
	})
}
