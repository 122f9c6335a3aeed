package dashboard

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type DashboardController struct {
	Service DashboardService
}

func NewDashboardController(service DashboardService) *DashboardController {
	return &DashboardController{Service: service}
}

func (ctrl *DashboardController) respond(c *fiber.Ctx, snap *Snapshot, err error) error {
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(snap)
}

// CreateSession opens a new dashboard session
// @Summary Create dashboard session
// @Tags dashboard
// @Produce json
// @Router /api/dashboard/sessions [post]
func (ctrl *DashboardController) CreateSession(c *fiber.Ctx) error {
	snap, err := ctrl.Service.CreateSession(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(snap)
}

// GetSession returns the session's current state
// @Summary Get dashboard session
// @Tags dashboard
// @Produce json
// @Param id path string true "Session ID"
// @Router /api/dashboard/sessions/{id} [get]
func (ctrl *DashboardController) GetSession(c *fiber.Ctx) error {
	snap, err := ctrl.Service.GetSnapshot(c.Params("id"))
	return ctrl.respond(c, snap, err)
}

// CloseSession discards a session
func (ctrl *DashboardController) CloseSession(c *fiber.Ctx) error {
	if err := ctrl.Service.CloseSession(c.Params("id")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddFlowFields adds a field for each rule of the flow
func (ctrl *DashboardController) AddFlowFields(c *fiber.Ctx) error {
	snap, err := ctrl.Service.AddFlowFields(c.Context(), c.Params("id"), c.Params("uuid"))
	return ctrl.respond(c, snap, err)
}

// RemoveField removes a field and its derived filters/segments
func (ctrl *DashboardController) RemoveField(c *fiber.Ctx) error {
	snap, err := ctrl.Service.RemoveField(c.Params("id"), c.Params("key"))
	return ctrl.respond(c, snap, err)
}

// ReorderFields applies a new field ordering
func (ctrl *DashboardController) ReorderFields(c *fiber.Ctx) error {
	var body struct {
		Keys []string `json:"keys"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	snap, err := ctrl.Service.ReorderFields(c.Params("id"), body.Keys)
	return ctrl.respond(c, snap, err)
}

// ToggleVisibility flips a field's visibility
func (ctrl *DashboardController) ToggleVisibility(c *fiber.Ctx) error {
	snap, err := ctrl.Service.ToggleVisibility(c.Params("id"), c.Params("key"))
	return ctrl.respond(c, snap, err)
}

// SetChartType sets a field's chart type
func (ctrl *DashboardController) SetChartType(c *fiber.Ctx) error {
	var body struct {
		ChartType string `json:"chart_type"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	snap, err := ctrl.Service.SetChartType(c.Params("id"), c.Params("key"), ChartType(body.ChartType))
	return ctrl.respond(c, snap, err)
}

// SetChartSize sets a field's chart span (1 or 2)
func (ctrl *DashboardController) SetChartSize(c *fiber.Ctx) error {
	var body struct {
		ChartSize int `json:"chart_size"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	snap, err := ctrl.Service.SetChartSize(c.Params("id"), c.Params("key"), body.ChartSize)
	return ctrl.respond(c, snap, err)
}

// ToggleChoropleth flips the geographic overlay flag
func (ctrl *DashboardController) ToggleChoropleth(c *fiber.Ctx) error {
	snap, err := ctrl.Service.ToggleChoropleth(c.Params("id"), c.Params("key"))
	return ctrl.respond(c, snap, err)
}

// ToggleDataTable flips the raw data table flag
func (ctrl *DashboardController) ToggleDataTable(c *fiber.Ctx) error {
	snap, err := ctrl.Service.ToggleDataTable(c.Params("id"), c.Params("key"))
	return ctrl.respond(c, snap, err)
}

// LoadField computes chart data for a field
func (ctrl *DashboardController) LoadField(c *fiber.Ctx) error {
	snap, err := ctrl.Service.LoadField(c.Context(), c.Params("id"), c.Params("key"))
	return ctrl.respond(c, snap, err)
}

// AddFilter creates a filter from a field
func (ctrl *DashboardController) AddFilter(c *fiber.Ctx) error {
	snap, err := ctrl.Service.AddFilter(c.Params("id"), c.Params("key"))
	return ctrl.respond(c, snap, err)
}

// AddGroupFilter creates the contact-group filter
func (ctrl *DashboardController) AddGroupFilter(c *fiber.Ctx) error {
	snap, err := ctrl.Service.AddGroupFilter(c.Context(), c.Params("id"))
	return ctrl.respond(c, snap, err)
}

// ToggleFilter flips a filter's active flag
func (ctrl *DashboardController) ToggleFilter(c *fiber.Ctx) error {
	snap, err := ctrl.Service.ToggleFilter(c.Params("id"), c.Params("key"))
	return ctrl.respond(c, snap, err)
}

// RemoveFilter removes a filter
func (ctrl *DashboardController) RemoveFilter(c *fiber.Ctx) error {
	snap, err := ctrl.Service.RemoveFilter(c.Params("id"), c.Params("key"))
	return ctrl.respond(c, snap, err)
}

// ToggleCategoryFilter flips one category's selection within a filter
func (ctrl *DashboardController) ToggleCategoryFilter(c *fiber.Ctx) error {
	snap, err := ctrl.Service.ToggleCategoryFilter(c.Params("id"), c.Params("key"), c.Params("label"))
	return ctrl.respond(c, snap, err)
}

// ActivateAllContacts makes a group filter pass everything
func (ctrl *DashboardController) ActivateAllContacts(c *fiber.Ctx) error {
	snap, err := ctrl.Service.ActivateAllContacts(c.Params("id"), c.Params("key"))
	return ctrl.respond(c, snap, err)
}

// AddSegment creates and activates a segment from a field
func (ctrl *DashboardController) AddSegment(c *fiber.Ctx) error {
	snap, err := ctrl.Service.AddSegment(c.Params("id"), c.Params("key"))
	return ctrl.respond(c, snap, err)
}

// AddGroupSegment creates and activates the contact-group segment
func (ctrl *DashboardController) AddGroupSegment(c *fiber.Ctx) error {
	snap, err := ctrl.Service.AddGroupSegment(c.Context(), c.Params("id"))
	return ctrl.respond(c, snap, err)
}

// RemoveSegment removes a segment
func (ctrl *DashboardController) RemoveSegment(c *fiber.Ctx) error {
	snap, err := ctrl.Service.RemoveSegment(c.Params("id"), c.Params("key"))
	return ctrl.respond(c, snap, err)
}

// ToggleSegment flips a segment's active flag
func (ctrl *DashboardController) ToggleSegment(c *fiber.Ctx) error {
	snap, err := ctrl.Service.ToggleSegment(c.Params("id"), c.Params("key"))
	return ctrl.respond(c, snap, err)
}

// ToggleCategorySegment flips one category's selection within the active segment
func (ctrl *DashboardController) ToggleCategorySegment(c *fiber.Ctx) error {
	snap, err := ctrl.Service.ToggleCategorySegment(c.Params("id"), c.Params("key"), c.Params("label"))
	return ctrl.respond(c, snap, err)
}

// ShowReport loads a saved report into the session
func (ctrl *DashboardController) ShowReport(c *fiber.Ctx) error {
	snap, err := ctrl.Service.ShowReport(c.Context(), c.Params("id"), c.Params("reportID"))
	return ctrl.respond(c, snap, err)
}

// ClearReport detaches the bound report
func (ctrl *DashboardController) ClearReport(c *fiber.Ctx) error {
	snap, err := ctrl.Service.ClearReport(c.Params("id"))
	return ctrl.respond(c, snap, err)
}

// SaveReport persists the session configuration as a report. A report
// id in the body updates that report, otherwise a new one is created.
// On failure the session stays dirty so the save dialog can retry.
func (ctrl *DashboardController) SaveReport(c *fiber.Ctx) error {
	var body struct {
		ReportID    string `json:"report_id"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	snap, err := ctrl.Service.SaveReport(c.Context(), c.Params("id"), body.ReportID, body.Title, body.Description)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(snap)
}

// Export downloads the session's loaded chart data as csv or xlsx
func (ctrl *DashboardController) Export(c *fiber.Ctx) error {
	format := c.Query("format", "csv")
	data, filename, err := ctrl.Service.ExportSession(c.Params("id"), format)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}
