package apiv1

import (
	"shift-tools-backend/controllers"
	assignmenthandler "shift-tools-backend/lib/assignment"
	"shift-tools-backend/middleware"
	apimodels "shift-tools-backend/models/api"
	shiftapimodels "shift-tools-backend/models/api/shift"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

type assignmentApiController struct {
	controllers.BaseAPIController
}

func InitAssignmentApiRouters(app *fiber.App) {
	controller := assignmentApiController{}
	app.Route("assignment", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Post("", controller.create)
		router.Put("approve_all/:shift_id", middleware.ManagerRequired(), controller.bulkApprove)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("approve", middleware.ManagerRequired(), controller.approve)
			idRoute.Put("reject", middleware.ManagerRequired(), controller.reject)
			idRoute.Delete("", middleware.ManagerRequired(), controller.delete)
			idRoute.Put("check_in", controller.checkIn)
			idRoute.Put("check_out", controller.checkOut)
		})
	})
}

// @Summary Создание назначения
// @Tags Назначение на смену
// @Description Запись себя на смену или назначение сотрудника менеджером
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 shiftapimodels.AssignmentCreateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assignment [post]
func (c *assignmentApiController) create(ctx *fiber.Ctx) error {
	var payload shiftapimodels.AssignmentCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actorID := middleware.GetUserID(ctx)
	id, err := assignmenthandler.Instance.Create(actorID, middleware.IsManager(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания назначения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Получение назначения по ИД
// @Tags Назначение на смену
// @Description Получение назначения по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true    "rec ID"
// @Success 200 {object} apimodels.Response{data=shiftapimodels.AssignmentView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assignment/{id} [get]
func (c *assignmentApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := assignmenthandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения назначения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Список назначений
// @Tags Назначение на смену
// @Description Список назначений по смене, сотруднику или филиалу
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 shiftapimodels.AssignmentFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]shiftapimodels.AssignmentView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assignment/list [post]
func (c *assignmentApiController) list(ctx *fiber.Ctx) error {
	var payload shiftapimodels.AssignmentFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := assignmenthandler.Instance.List(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка назначений")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Подтверждение назначения
// @Tags Назначение на смену
// @Description Подтверждение самозаписи менеджером
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assignment/{id}/approve [put]
func (c *assignmentApiController) approve(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = assignmenthandler.Instance.Approve(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка подтверждения назначения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Групповое подтверждение назначений смены
// @Tags Назначение на смену
// @Description Подтверждение всех ожидающих самозаписей смены, результат по каждой записи отдельно
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   shift_id       		path    string  	true    "shift ID"
// @Success 200 {object} apimodels.Response{data=[]shiftapimodels.BulkOutcome}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assignment/approve_all/{shift_id} [put]
func (c *assignmentApiController) bulkApprove(ctx *fiber.Ctx) error {
	shiftID := ctx.Params("shift_id")
	if shiftID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(errors.New("не указан идентификатор смены").Error()))
	}
	outcomes, err := assignmenthandler.Instance.BulkApprove(shiftID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка группового подтверждения назначений")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(outcomes))
}

// @Summary Отклонение назначения
// @Tags Назначение на смену
// @Description Отклонение самозаписи менеджером с указанием причины
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true    "rec ID"
// @Param	body body	 shiftapimodels.RejectData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assignment/{id}/reject [put]
func (c *assignmentApiController) reject(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload shiftapimodels.RejectData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = assignmenthandler.Instance.Reject(id, payload.Reason)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отклонения назначения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Отмена назначения
// @Tags Назначение на смену
// @Description Отмена назначения менеджером, запись остается в истории
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assignment/{id} [delete]
func (c *assignmentApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = assignmenthandler.Instance.Delete(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отмены назначения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Отметка прихода
// @Tags Назначение на смену
// @Description Отметка прихода на смену в разрешенном окне
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assignment/{id}/check_in [put]
func (c *assignmentApiController) checkIn(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = assignmenthandler.Instance.CheckIn(ctx.UserContext(), id, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отметки прихода")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Отметка ухода
// @Tags Назначение на смену
// @Description Отметка ухода со смены с фиксацией отработанных часов
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/assignment/{id}/check_out [put]
func (c *assignmentApiController) checkOut(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = assignmenthandler.Instance.CheckOut(ctx.UserContext(), id, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отметки ухода")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
