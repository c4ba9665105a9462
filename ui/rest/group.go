package rest

import (
	"github.com/AzielCF/az-sched/pkg/utils"
	"github.com/AzielCF/az-sched/scheduler/domain"
	"github.com/AzielCF/az-sched/validations"
	"github.com/gofiber/fiber/v2"
)

type Group struct {
	Service domain.GroupRepository
}

func InitRestGroup(app fiber.Router, service domain.GroupRepository) Group {
	rest := Group{Service: service}
	app.Post("/groups", rest.Create)
	app.Get("/groups", rest.List)
	app.Get("/groups/:id", rest.Get)
	app.Put("/groups/:id", rest.Update)
	app.Delete("/groups/:id", rest.Delete)
	return rest
}

func (controller *Group) Create(c *fiber.Ctx) error {
	var request domain.Group
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	panicIfNeeded(validations.ValidateGroup(c.UserContext(), request))
	request.GroupID = utils.FormatGroupID(request.GroupID)

	panicIfNeeded(controller.Service.Create(c.UserContext(), &request))

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success create group",
		Results: request,
	})
}

func (controller *Group) List(c *fiber.Ctx) error {
	groups, err := controller.Service.List(c.UserContext())
	panicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch groups",
		Results: groups,
	})
}

func (controller *Group) Get(c *fiber.Ctx) error {
	group, err := controller.Service.GetByID(c.UserContext(), c.Params("id"))
	panicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch group",
		Results: group,
	})
}

func (controller *Group) Update(c *fiber.Ctx) error {
	var request domain.Group
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	panicIfNeeded(validations.ValidateGroup(c.UserContext(), request))
	request.ID = c.Params("id")
	request.GroupID = utils.FormatGroupID(request.GroupID)

	panicIfNeeded(controller.Service.Update(c.UserContext(), &request))

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success update group",
		Results: request,
	})
}

func (controller *Group) Delete(c *fiber.Ctx) error {
	err := controller.Service.Delete(c.UserContext(), c.Params("id"))
	panicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success delete group",
	})
}
