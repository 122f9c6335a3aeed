package dashboard

import (
	"flowdash/internal/config"
	"flowdash/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DashboardApi struct {
	Controller *DashboardController
	Config     *config.Config
}

func NewDashboardApi(controller *DashboardController, cfg *config.Config) *DashboardApi {
	return &DashboardApi{
		Controller: controller,
		Config:     cfg,
	}
}

func (api *DashboardApi) Setup(app *fiber.App) {
	group := app.Group("/api/dashboard/sessions", middleware.AuthMiddleware(api.Config.SkipAuth))

	group.Post("/", api.Controller.CreateSession)
	group.Get("/:id", api.Controller.GetSession)
	group.Delete("/:id", api.Controller.CloseSession)
	group.Get("/:id/export", api.Controller.Export)

	// Fields
	group.Post("/:id/fields/flow/:uuid", api.Controller.AddFlowFields)
	group.Post("/:id/fields/reorder", api.Controller.ReorderFields)
	group.Delete("/:id/fields/:key", api.Controller.RemoveField)
	group.Post("/:id/fields/:key/load", api.Controller.LoadField)
	group.Post("/:id/fields/:key/visibility", api.Controller.ToggleVisibility)
	group.Put("/:id/fields/:key/chart-type", api.Controller.SetChartType)
	group.Put("/:id/fields/:key/chart-size", api.Controller.SetChartSize)
	group.Post("/:id/fields/:key/choropleth", api.Controller.ToggleChoropleth)
	group.Post("/:id/fields/:key/data-table", api.Controller.ToggleDataTable)

	// Filters
	group.Post("/:id/filters/groups", api.Controller.AddGroupFilter)
	group.Post("/:id/filters/:key", api.Controller.AddFilter)
	group.Post("/:id/filters/:key/toggle", api.Controller.ToggleFilter)
	group.Delete("/:id/filters/:key", api.Controller.RemoveFilter)
	group.Post("/:id/filters/:key/categories/:label/toggle", api.Controller.ToggleCategoryFilter)
	group.Post("/:id/filters/:key/all-contacts", api.Controller.ActivateAllContacts)

	// Segments
	group.Post("/:id/segments/groups", api.Controller.AddGroupSegment)
	group.Post("/:id/segments/:key", api.Controller.AddSegment)
	group.Post("/:id/segments/:key/toggle", api.Controller.ToggleSegment)
	group.Delete("/:id/segments/:key", api.Controller.RemoveSegment)
	group.Post("/:id/segments/:key/categories/:label/toggle", api.Controller.ToggleCategorySegment)

	// Reports
	group.Post("/:id/report", api.Controller.SaveReport)
	group.Put("/:id/report/:reportID", api.Controller.ShowReport)
	group.Delete("/:id/report", api.Controller.ClearReport)
}
