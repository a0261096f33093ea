package apiv1

import (
	"shift-tools-backend/controllers"
	staffhandler "shift-tools-backend/lib/staff"
	"shift-tools-backend/middleware"
	apimodels "shift-tools-backend/models/api"
	staffapimodels "shift-tools-backend/models/api/staff"

	"github.com/gofiber/fiber/v2"
)

type staffApiController struct {
	controllers.BaseAPIController
}

func InitStaffApiRouters(app *fiber.App) {
	controller := staffApiController{}
	app.Route("staff", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Post("", middleware.ManagerRequired(), controller.create)
		router.Get("profile", controller.profile)
		router.Put("notifications", controller.setNotifications)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", middleware.ManagerRequired(), controller.update)
			idRoute.Put("dismiss", middleware.ManagerRequired(), controller.dismiss)
		})
	})
}

type notificationsData struct {
	PushEnabled  bool `json:"push_enabled"`  // Уведомления в системе
	EmailEnabled bool `json:"email_enabled"` // Уведомления на почту
}

type staffListFilter struct {
	BranchID string `json:"branch_id"` // Филиал
}

// @Summary Создание сотрудника
// @Tags Сотрудник
// @Description Создание сотрудника (только менеджер)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 staffapimodels.StaffUserData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/staff [post]
func (c *staffApiController) create(ctx *fiber.Ctx) error {
	var payload staffapimodels.StaffUserData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := staffhandler.Instance.Create(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания сотрудника")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Изменение сотрудника
// @Tags Сотрудник
// @Description Изменение данных сотрудника (только менеджер)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true    "rec ID"
// @Param	body body	 staffapimodels.StaffUserData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/staff/{id} [put]
func (c *staffApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload staffapimodels.StaffUserData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = staffhandler.Instance.Update(id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения сотрудника")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Получение сотрудника по ИД
// @Tags Сотрудник
// @Description Получение сотрудника по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true    "rec ID"
// @Success 200 {object} apimodels.Response{data=staffapimodels.StaffUserView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/staff/{id} [get]
func (c *staffApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := staffhandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения сотрудника")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Профиль
// @Tags Сотрудник
// @Description Профиль текущего сотрудника
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=staffapimodels.StaffUserView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/staff/profile [get]
func (c *staffApiController) profile(ctx *fiber.Ctx) error {
	resp, err := staffhandler.Instance.GetByID(middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения профиля")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Увольнение сотрудника
// @Tags Сотрудник
// @Description Увольнение сотрудника, история смен сохраняется (только менеджер)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/staff/{id}/dismiss [put]
func (c *staffApiController) dismiss(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = staffhandler.Instance.Dismiss(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка увольнения сотрудника")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Список сотрудников
// @Tags Сотрудник
// @Description Список сотрудников филиала, без фильтра — филиал текущего пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 staffListFilter	false	"request body"
// @Success 200 {object} apimodels.Response{data=[]staffapimodels.StaffUserView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/staff/list [post]
func (c *staffApiController) list(ctx *fiber.Ctx) error {
	var payload staffListFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	branchID := payload.BranchID
	if branchID == "" {
		branchID = middleware.GetUserBranch(ctx)
	}
	list, err := staffhandler.Instance.ListByBranch(branchID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка сотрудников")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Настройка уведомлений
// @Tags Сотрудник
// @Description Переключение каналов уведомлений текущим сотрудником
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 notificationsData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/staff/notifications [put]
func (c *staffApiController) setNotifications(ctx *fiber.Ctx) error {
	var payload notificationsData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err := staffhandler.Instance.SetNotifications(middleware.GetUserID(ctx), payload.PushEnabled, payload.EmailEnabled)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка настройки уведомлений")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
