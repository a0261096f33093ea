package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// ErrNotify отправка 5xx ответов на внешний адрес дежурного мониторинга
func ErrNotify(addr string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		statusCode := c.Response().StatusCode()
		if statusCode < http.StatusInternalServerError {
			return err
		}
		var data struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}
		if unmErr := json.Unmarshal(c.Response().Body(), &data); unmErr != nil {
			log.WithError(unmErr).Warn("не удалось разобрать тело ответа с ошибкой")
		}
		msg := data.Message
		if msg == "" {
			msg = string(c.Response().Body())
		}
		method := c.Method()
		path := c.OriginalURL()
		if r := c.Route(); r != nil {
			path = r.Path
		}
		go func() {
			payload := fmt.Sprintf(
				`{"code":%d,"method":%q,"path":%q,"error":%q}`,
				statusCode, method, path, msg)
			if _, reqErr := http.Post(addr, "application/json", strings.NewReader(payload)); reqErr != nil {
				log.WithError(reqErr).Warn("ошибка отправки уведомления о сбое")
			}
		}()
		return err
	}
}
