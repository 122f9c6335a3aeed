package flow

import (
	"flowdash/internal/config"
	"flowdash/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type FlowApi struct {
	Controller *FlowController
	Config     *config.Config
}

func NewFlowApi(controller *FlowController, config *config.Config) *FlowApi {
	return &FlowApi{
		Controller: controller,
		Config:     config,
	}
}

func (api *FlowApi) Setup(app *fiber.App) {
	group := app.Group("/api/flows", middleware.AuthMiddleware(api.Config.SkipAuth))

	group.Get("/", api.Controller.ListFlows)
	group.Get("/:uuid", api.Controller.GetFlow)
}
