package sync

import (
	"flowdash/internal/config"
	"flowdash/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SyncApi struct {
	Controller *SyncController
	Config     *config.Config
}

func NewSyncApi(controller *SyncController, config *config.Config) *SyncApi {
	return &SyncApi{
		Controller: controller,
		Config:     config,
	}
}

func (api *SyncApi) Setup(app *fiber.App) {
	group := app.Group("/api/sync", middleware.AuthMiddleware(api.Config.SkipAuth))

	group.Post("/settings", api.Controller.CreateSyncSetting)
	group.Get("/settings", api.Controller.ListSyncSettings)
	group.Get("/settings/:id", api.Controller.GetSyncSetting)
	group.Put("/settings/:id", api.Controller.UpdateSyncSetting)
	group.Delete("/settings/:id", api.Controller.DeleteSyncSetting)
	group.Post("/settings/:id/run", api.Controller.RunSync)
	group.Get("/settings/:id/logs", api.Controller.ListSyncLogs)
}
