package controllers

import (
	"shift-tools-backend/middleware"
	"shift-tools-backend/models"
	apimodels "shift-tools-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	id := ctx.Params("id")
	if id == "" {
		return "", errors.New("не указан идентификатор записи")
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("user_id", middleware.GetUserID(ctx)).
		WithField("path", ctx.Path())
}

// SendError бизнес-ошибки уходят клиенту со статусом по виду ошибки,
// системные пишутся в лог и скрываются за hMsg
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, hMsg string) error {
	switch models.GetErrorKind(err) {
	case models.ErrKindValidation, models.ErrKindWindowViolation, models.ErrKindCapacity:
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	case models.ErrKindNotEligible:
		return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(err.Error()))
	case models.ErrKindStateConflict:
		return ctx.Status(fiber.StatusConflict).JSON(apimodels.NewError(err.Error()))
	case models.ErrKindNotFound:
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(err.Error()))
	default:
		logger.WithError(err).Error(hMsg)
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(hMsg))
	}
}
