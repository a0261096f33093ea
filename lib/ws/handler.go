package ws

import (
	wsclient "shift-tools-backend/lib/ws/client"
	connectionhub "shift-tools-backend/lib/ws/hub/connection-hub"
	"shift-tools-backend/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func InitWs(app *fiber.App) {
	app.Use("", func(ctx *fiber.Ctx) error {
		userID := middleware.GetUserID(ctx)
		ctx.Locals("userID", userID)
		return ctx.Next()
	})
	app.Get("/", websocket.New(pushHandler))
}

// @Summary Системные пуши
// @Tags Websocket Системные пуши
// @Description События по назначениям и заявкам
// @Param   Authorization		header		string		true		"Authorization token"
// @Success 200 {object} wsmodels.ServerMessage
// @Failure 400
// @Failure 403
// @Failure 500
// @router /ws [get]
func pushHandler(c *websocket.Conn) {
	userID := c.Locals("userID").(string)
	client := wsclient.NewClient(userID, c)
	connectionhub.Instance.AddClient(userID, c)
	defer func() {
		connectionhub.Instance.DeleteClient(userID)
	}()
	client.Dispatch()
}
