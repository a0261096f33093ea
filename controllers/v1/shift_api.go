package apiv1

import (
	"shift-tools-backend/controllers"
	shifthandler "shift-tools-backend/lib/shift"
	"shift-tools-backend/middleware"
	apimodels "shift-tools-backend/models/api"
	shiftapimodels "shift-tools-backend/models/api/shift"

	"github.com/gofiber/fiber/v2"
)

type shiftApiController struct {
	controllers.BaseAPIController
}

func InitShiftApiRouters(app *fiber.App) {
	controller := shiftApiController{}
	app.Route("shift", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Post("", middleware.ManagerRequired(), controller.create)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Delete("", middleware.ManagerRequired(), controller.delete)
		})
	})
}

// @Summary Создание смены
// @Tags Смена
// @Description Создание смены (только менеджер)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 shiftapimodels.ShiftData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/shift [post]
func (c *shiftApiController) create(ctx *fiber.Ctx) error {
	var payload shiftapimodels.ShiftData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := shifthandler.Instance.Create(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания смены")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Получение смены по ИД
// @Tags Смена
// @Description Получение смены по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true    "rec ID"
// @Success 200 {object} apimodels.Response{data=shiftapimodels.ShiftView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/shift/{id} [get]
func (c *shiftApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := shifthandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения смены")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Удаление смены
// @Tags Смена
// @Description Удаление смены без активных назначений (только менеджер)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/shift/{id} [delete]
func (c *shiftApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = shifthandler.Instance.Delete(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления смены")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Список смен
// @Tags Смена
// @Description Список смен филиала за период
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 shiftapimodels.ShiftFilter	true	"request body"
// @Success 200 {object} apimodels.Response{data=[]shiftapimodels.ShiftView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/shift/list [post]
func (c *shiftApiController) list(ctx *fiber.Ctx) error {
	var payload shiftapimodels.ShiftFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := shifthandler.Instance.List(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка смен")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
