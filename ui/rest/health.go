package rest

import (
	"time"

	"github.com/AzielCF/az-sched/core/config"
	"github.com/AzielCF/az-sched/infrastructure/evolution"
	"github.com/AzielCF/az-sched/pkg/utils"
	"github.com/AzielCF/az-sched/scheduler/trigger"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Health struct {
	DB       *gorm.DB
	Gateway  *evolution.Client
	Registry *trigger.CronRegistry
}

func InitRestHealth(app fiber.Router, db *gorm.DB, gateway *evolution.Client, registry *trigger.CronRegistry) Health {
	rest := Health{DB: db, Gateway: gateway, Registry: registry}
	app.Get("/health", rest.Check)
	return rest
}

type healthReport struct {
	Status    string         `json:"status"`
	Database  string         `json:"database"`
	Gateway   string         `json:"gateway"`
	Instance  string         `json:"instance,omitempty"`
	Triggers  int            `json:"registered_triggers"`
	Settings  map[string]any `json:"settings"`
	CheckedAt time.Time      `json:"checked_at"`
}

// Check probes the database and the Evolution gateway. A degraded dependency
// is reported, not panicked; the endpoint itself always answers.
func (controller *Health) Check(c *fiber.Ctx) error {
	report := healthReport{
		Status:    "ok",
		Database:  "ok",
		Gateway:   "ok",
		Triggers:  controller.Registry.Len(),
		Settings:  config.GetAllSettings(),
		CheckedAt: time.Now().UTC(),
	}

	if sqlDB, err := controller.DB.DB(); err != nil {
		report.Database = err.Error()
		report.Status = "degraded"
	} else if err := sqlDB.PingContext(c.UserContext()); err != nil {
		report.Database = err.Error()
		report.Status = "degraded"
	}

	state, err := controller.Gateway.CheckConnection(c.UserContext())
	if err != nil {
		report.Gateway = err.Error()
		report.Status = "degraded"
	} else {
		report.Gateway = state.State
		report.Instance = state.Instance
		if state.State != "open" {
			report.Status = "degraded"
		}
	}

	status := 200
	if report.Status != "ok" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(utils.ResponseData{
		Status:  status,
		Code:    "SUCCESS",
		Message: "Health check finished",
		Results: report,
	})
}
