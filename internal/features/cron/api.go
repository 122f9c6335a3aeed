package cron_feature

import (
	"flowdash/internal/config"
	"flowdash/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CronApi struct {
	Controller *CronController
	Config     *config.Config
}

func NewCronApi(controller *CronController, config *config.Config) *CronApi {
	return &CronApi{
		Controller: controller,
		Config:     config,
	}
}

func (api *CronApi) Setup(app *fiber.App) {
	group := app.Group("/api/cron-jobs", middleware.AuthMiddleware(api.Config.SkipAuth))

	group.Post("/", api.Controller.CreateCronJob)
	group.Get("/", api.Controller.ListCronJobs)
	group.Get("/:id", api.Controller.GetCronJob)
	group.Put("/:id", api.Controller.UpdateCronJob)
	group.Delete("/:id", api.Controller.DeleteCronJob)

	group.Post("/:id/execute", api.Controller.ExecuteCronJob)
	group.Get("/:id/logs", api.Controller.GetCronJobLogs)
}
