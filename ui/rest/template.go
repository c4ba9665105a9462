package rest

import (
	"github.com/AzielCF/az-sched/pkg/utils"
	"github.com/AzielCF/az-sched/scheduler/domain"
	"github.com/AzielCF/az-sched/validations"
	"github.com/gofiber/fiber/v2"
)

type Template struct {
	Service domain.TemplateRepository
}

func InitRestTemplate(app fiber.Router, service domain.TemplateRepository) Template {
	rest := Template{Service: service}
	app.Post("/templates", rest.Create)
	app.Get("/templates", rest.List)
	app.Get("/templates/:id", rest.Get)
	app.Put("/templates/:id", rest.Update)
	app.Delete("/templates/:id", rest.Delete)
	return rest
}

func (controller *Template) Create(c *fiber.Ctx) error {
	var request domain.MessageTemplate
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	panicIfNeeded(validations.ValidateTemplate(c.UserContext(), request))

	panicIfNeeded(controller.Service.Create(c.UserContext(), &request))

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success create template",
		Results: request,
	})
}

func (controller *Template) List(c *fiber.Ctx) error {
	templates, err := controller.Service.List(c.UserContext())
	panicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch templates",
		Results: templates,
	})
}

func (controller *Template) Get(c *fiber.Ctx) error {
	template, err := controller.Service.GetByID(c.UserContext(), c.Params("id"))
	panicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch template",
		Results: template,
	})
}

func (controller *Template) Update(c *fiber.Ctx) error {
	var request domain.MessageTemplate
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	panicIfNeeded(validations.ValidateTemplate(c.UserContext(), request))
	request.ID = c.Params("id")

	panicIfNeeded(controller.Service.Update(c.UserContext(), &request))

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success update template",
		Results: request,
	})
}

func (controller *Template) Delete(c *fiber.Ctx) error {
	err := controller.Service.Delete(c.UserContext(), c.Params("id"))
	panicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success delete template",
	})
}
