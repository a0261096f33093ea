package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"shift-tools-backend/config"
	apiv1 "shift-tools-backend/controllers/v1"
	"shift-tools-backend/controllers/v1/dict"
	_ "shift-tools-backend/docs"
	"shift-tools-backend/fiberlog"
	"shift-tools-backend/initializers"
	"shift-tools-backend/lib/ws"
	"shift-tools-backend/middleware"
	"sync"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	initializers.InitAllServices(ctx)

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // limit of 10MB
	})
	app.Use(fiberRecover.New())
	if config.Conf.App.ErrNotifyAddr != "" {
		app.Use(middleware.ErrNotify(config.Conf.App.ErrNotifyAddr))
	}

	swaggerCfg := swagger.Config{
		Path:     "/swagger",
		FilePath: "./docs/swagger.json",
	}
	app.Use(swagger.New(swaggerCfg))

	//api
	apiV1 := fiber.New()
	apiV1.Use(fiberlog.New(*initializers.LoggerConfig))
	app.Mount("/api/v1", apiV1)
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, PUT",
	}))
	apiV1.Use(middleware.WithBodyLimit(1 * 1024 * 1024))
	apiv1.InitAuthApiRouters(apiV1)

	//dict
	dicts := fiber.New()
	apiV1.Mount("/dict", dicts)
	dicts.Use(middleware.AuthorizationRequired())
	dict.InitBranchDictApiRouters(dicts)

	//рабочая область графика смен
	workspace := fiber.New()
	apiV1.Mount("/", workspace)
	workspace.Use(middleware.AuthorizationRequired())
	apiv1.InitStaffApiRouters(workspace)
	apiv1.InitShiftApiRouters(workspace)
	apiv1.InitAssignmentApiRouters(workspace)
	apiv1.InitShiftRequestApiRouters(workspace)
	apiv1.InitClosureApiRouters(workspace)
	apiv1.InitExportApiRouters(workspace)

	//websocket пуши
	wsApp := fiber.New()
	app.Mount("/ws", wsApp)
	wsApp.Use(middleware.AuthorizationRequired())
	ws.InitWs(wsApp)

	app.Hooks().OnShutdown()

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	wg := sync.WaitGroup{}
	go func() {
		_ = <-c
		wg.Add(1)
		defer wg.Done()
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		time.Sleep(time.Second)
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
