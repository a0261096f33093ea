package apiv1

import (
	"shift-tools-backend/controllers"
	closurehandler "shift-tools-backend/lib/closure"
	"shift-tools-backend/middleware"
	apimodels "shift-tools-backend/models/api"
	shiftapimodels "shift-tools-backend/models/api/shift"

	"github.com/gofiber/fiber/v2"
)

type closureApiController struct {
	controllers.BaseAPIController
}

func InitClosureApiRouters(app *fiber.App) {
	controller := closureApiController{}
	app.Route("closure", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Post("", middleware.ManagerRequired(), controller.create)
		router.Delete(":id", middleware.ManagerRequired(), controller.delete)
	})
}

// @Summary Создание закрытия филиала
// @Tags Закрытие филиала
// @Description Период закрытия филиала, пустой филиал — закрытие всех (только менеджер)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 shiftapimodels.ClosureData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/closure [post]
func (c *closureApiController) create(ctx *fiber.Ctx) error {
	var payload shiftapimodels.ClosureData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := closurehandler.Instance.Create(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания закрытия филиала")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Удаление закрытия филиала
// @Tags Закрытие филиала
// @Description Удаление периода закрытия (только менеджер)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/closure/{id} [delete]
func (c *closureApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = closurehandler.Instance.Delete(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления закрытия филиала")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Список закрытий
// @Tags Закрытие филиала
// @Description Список закрытий за период
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 shiftapimodels.ClosureData	false	"request body"
// @Success 200 {object} apimodels.Response{data=[]shiftapimodels.ClosureView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/closure/list [post]
func (c *closureApiController) list(ctx *fiber.Ctx) error {
	var payload shiftapimodels.ClosureData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := closurehandler.Instance.List(payload.DateFrom, payload.DateTo)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка закрытий")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}
