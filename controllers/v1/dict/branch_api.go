package dict

import (
	"shift-tools-backend/controllers"
	branchhandler "shift-tools-backend/lib/dicts/branch"
	"shift-tools-backend/middleware"
	apimodels "shift-tools-backend/models/api"
	staffapimodels "shift-tools-backend/models/api/staff"

	"github.com/gofiber/fiber/v2"
)

type branchDictApiController struct {
	controllers.BaseAPIController
}

func InitBranchDictApiRouters(app *fiber.App) {
	controller := branchDictApiController{}
	app.Route("branch", func(router fiber.Router) {
		router.Post("list", controller.branchList)
		router.Get(":id", controller.branchGet)
		router.Use(middleware.ManagerRequired())
		router.Post("", controller.branchCreate)
		router.Put(":id", controller.branchUpdate)
		router.Delete(":id", controller.branchDelete)
	})
}

// @Summary Создание
// @Tags Справочник. Филиал
// @Description Создание
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 staffapimodels.BranchData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/branch [post]
func (c *branchDictApiController) branchCreate(ctx *fiber.Ctx) error {
	var payload staffapimodels.BranchData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := branchhandler.Instance.Create(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания филиала")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Обновление
// @Tags Справочник. Филиал
// @Description Обновление
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true    "rec ID"
// @Param	body body	 staffapimodels.BranchData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/branch/{id} [put]
func (c *branchDictApiController) branchUpdate(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload staffapimodels.BranchData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = branchhandler.Instance.Update(id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения филиала")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Получение по ИД
// @Tags Справочник. Филиал
// @Description Получение по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true    "rec ID"
// @Success 200 {object} apimodels.Response{data=staffapimodels.BranchView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/branch/{id} [get]
func (c *branchDictApiController) branchGet(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := branchhandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения филиала")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Удаление
// @Tags Справочник. Филиал
// @Description Удаление
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/branch/{id} [delete]
func (c *branchDictApiController) branchDelete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = branchhandler.Instance.Delete(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления филиала")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Список
// @Tags Справочник. Филиал
// @Description Список филиалов
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]staffapimodels.BranchView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/branch/list [post]
func (c *branchDictApiController) branchList(ctx *fiber.Ctx) error {
	list, err := branchhandler.Instance.List()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка филиалов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}
