package apiv1

import (
	"shift-tools-backend/controllers"
	candidateshandler "shift-tools-backend/lib/candidates"
	shiftrequesthandler "shift-tools-backend/lib/shift-request"
	"shift-tools-backend/middleware"
	apimodels "shift-tools-backend/models/api"
	shiftapimodels "shift-tools-backend/models/api/shift"

	"github.com/gofiber/fiber/v2"
)

type shiftRequestApiController struct {
	controllers.BaseAPIController
}

func InitShiftRequestApiRouters(app *fiber.App) {
	controller := shiftRequestApiController{}
	app.Route("request", func(router fiber.Router) {
		router.Post("", controller.create)
		router.Post("own/list", controller.listOwn)
		router.Post("incoming/list", controller.listIncoming)
		router.Post("review/list", middleware.ManagerRequired(), controller.listForReview)
		router.Post("candidates", controller.candidates)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("respond", controller.respond)
			idRoute.Put("approve", middleware.ManagerRequired(), controller.approve)
			idRoute.Put("reject", middleware.ManagerRequired(), controller.reject)
			idRoute.Put("cancel", controller.cancel)
		})
	})
}

// @Summary Создание заявки
// @Tags Заявка по смене
// @Description Создание заявки: подмена, обмен, отгул или сверхурочная смена
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 shiftapimodels.RequestCreateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/request [post]
func (c *shiftRequestApiController) create(ctx *fiber.Ctx) error {
	var payload shiftapimodels.RequestCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actorID := middleware.GetUserID(ctx)
	id, err := shiftrequesthandler.Instance.Create(actorID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Получение заявки по ИД
// @Tags Заявка по смене
// @Description Получение заявки по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true    "rec ID"
// @Success 200 {object} apimodels.Response{data=shiftapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/request/{id} [get]
func (c *shiftRequestApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := shiftrequesthandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Список своих заявок
// @Tags Заявка по смене
// @Description Заявки, поданные текущим сотрудником
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]shiftapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/request/own/list [post]
func (c *shiftRequestApiController) listOwn(ctx *fiber.Ctx) error {
	list, err := shiftrequesthandler.Instance.ListOwn(middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка заявок")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Список входящих заявок
// @Tags Заявка по смене
// @Description Заявки, ожидающие ответа текущего сотрудника как второй стороны
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]shiftapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/request/incoming/list [post]
func (c *shiftRequestApiController) listIncoming(ctx *fiber.Ctx) error {
	list, err := shiftrequesthandler.Instance.ListIncoming(middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка входящих заявок")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Очередь заявок на решение
// @Tags Заявка по смене
// @Description Заявки, ожидающие решения менеджера
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]shiftapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/request/review/list [post]
func (c *shiftRequestApiController) listForReview(ctx *fiber.Ctx) error {
	list, err := shiftrequesthandler.Instance.ListForReview()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения очереди заявок")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Подбор назначений для подмены
// @Tags Заявка по смене
// @Description Назначения недели для выбора цели подмены или обмена
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 shiftapimodels.CandidatesFilter	true	"request body"
// @Success 200 {object} apimodels.Response{data=shiftapimodels.CandidatesView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/request/candidates [post]
func (c *shiftRequestApiController) candidates(ctx *fiber.Ctx) error {
	var payload shiftapimodels.CandidatesFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := candidateshandler.Instance.Find(middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка подбора назначений")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Ответ второй стороны
// @Tags Заявка по смене
// @Description Согласие или отказ сотрудника, которому адресована заявка
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true    "rec ID"
// @Param	body body	 shiftapimodels.RequestRespondData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/request/{id}/respond [put]
func (c *shiftRequestApiController) respond(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload shiftapimodels.RequestRespondData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = shiftrequesthandler.Instance.Respond(ctx.UserContext(), id, middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка ответа на заявку")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Согласование заявки
// @Tags Заявка по смене
// @Description Согласование заявки менеджером с применением изменений по сменам
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true    "rec ID"
// @Param	body body	 shiftapimodels.RequestDecisionData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/request/{id}/approve [put]
func (c *shiftRequestApiController) approve(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload shiftapimodels.RequestDecisionData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = shiftrequesthandler.Instance.Approve(ctx.UserContext(), id, middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка согласования заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Отклонение заявки
// @Tags Заявка по смене
// @Description Отклонение заявки менеджером
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true    "rec ID"
// @Param	body body	 shiftapimodels.RequestDecisionData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/request/{id}/reject [put]
func (c *shiftRequestApiController) reject(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload shiftapimodels.RequestDecisionData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = shiftrequesthandler.Instance.Reject(ctx.UserContext(), id, middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отклонения заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Отзыв заявки
// @Tags Заявка по смене
// @Description Отзыв своей заявки автором до решения менеджера
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/request/{id}/cancel [put]
func (c *shiftRequestApiController) cancel(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = shiftrequesthandler.Instance.Cancel(ctx.UserContext(), id, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отзыва заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
