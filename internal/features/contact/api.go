package contact

import (
	"flowdash/internal/config"
	"flowdash/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ContactApi struct {
	Controller *ContactController
	Config     *config.Config
}

func NewContactApi(controller *ContactController, config *config.Config) *ContactApi {
	return &ContactApi{
		Controller: controller,
		Config:     config,
	}
}

func (api *ContactApi) Setup(app *fiber.App) {
	group := app.Group("/api/contacts", middleware.AuthMiddleware(api.Config.SkipAuth))

	group.Get("/", api.Controller.ListContacts)
}
