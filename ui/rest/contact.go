package rest

import (
	"github.com/AzielCF/az-sched/pkg/utils"
	"github.com/AzielCF/az-sched/scheduler/domain"
	"github.com/AzielCF/az-sched/validations"
	"github.com/gofiber/fiber/v2"
)

type Contact struct {
	Service domain.ContactRepository
}

func InitRestContact(app fiber.Router, service domain.ContactRepository) Contact {
	rest := Contact{Service: service}
	app.Post("/contacts", rest.Create)
	app.Get("/contacts", rest.List)
	app.Get("/contacts/:id", rest.Get)
	app.Put("/contacts/:id", rest.Update)
	app.Delete("/contacts/:id", rest.Delete)
	return rest
}

func (controller *Contact) Create(c *fiber.Ctx) error {
	var request domain.Contact
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	panicIfNeeded(validations.ValidateContact(c.UserContext(), request))
	request.PhoneNumber = utils.FormatPhoneNumber(request.PhoneNumber)

	panicIfNeeded(controller.Service.Create(c.UserContext(), &request))

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success create contact",
		Results: request,
	})
}

func (controller *Contact) List(c *fiber.Ctx) error {
	contacts, err := controller.Service.List(c.UserContext())
	panicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch contacts",
		Results: contacts,
	})
}

func (controller *Contact) Get(c *fiber.Ctx) error {
	contact, err := controller.Service.GetByID(c.UserContext(), c.Params("id"))
	panicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch contact",
		Results: contact,
	})
}

func (controller *Contact) Update(c *fiber.Ctx) error {
	var request domain.Contact
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	panicIfNeeded(validations.ValidateContact(c.UserContext(), request))
	request.ID = c.Params("id")
	request.PhoneNumber = utils.FormatPhoneNumber(request.PhoneNumber)

	panicIfNeeded(controller.Service.Update(c.UserContext(), &request))

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success update contact",
		Results: request,
	})
}

func (controller *Contact) Delete(c *fiber.Ctx) error {
	err := controller.Service.Delete(c.UserContext(), c.Params("id"))
	panicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success delete contact",
	})
}
