package group

import (
	"flowdash/internal/config"
	"flowdash/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type GroupApi struct {
	Controller *GroupController
	Config     *config.Config
}

func NewGroupApi(controller *GroupController, config *config.Config) *GroupApi {
	return &GroupApi{
		Controller: controller,
		Config:     config,
	}
}

func (api *GroupApi) Setup(app *fiber.App) {
	group := app.Group("/api/groups", middleware.AuthMiddleware(api.Config.SkipAuth))

	group.Get("/", api.Controller.ListGroups)
	group.Post("/refresh-counts", api.Controller.RefreshCounts)
	group.Get("/:uuid", api.Controller.GetGroup)
}
