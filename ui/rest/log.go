package rest

import (
	"github.com/AzielCF/az-sched/pkg/utils"
	"github.com/AzielCF/az-sched/scheduler/domain"
	"github.com/gofiber/fiber/v2"
)

// Log exposes the message log read-only; entries are written by the
// dispatcher only.
type Log struct {
	Service domain.LogRepository
}

func InitRestLog(app fiber.Router, service domain.LogRepository) Log {
	rest := Log{Service: service}
	app.Get("/logs", rest.List)
	return rest
}

func (controller *Log) List(c *fiber.Ctx) error {
	filter := domain.LogFilter{
		ScheduleID: c.Query("schedule_id"),
		Limit:      c.QueryInt("limit", 100),
		Offset:     c.QueryInt("offset"),
	}
	if v := c.Query("status"); v != "" {
		status := domain.LogStatus(v)
		filter.Status = &status
	}

	logs, err := controller.Service.List(c.UserContext(), filter)
	panicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch message logs",
		Results: logs,
	})
}
