package report

import (
	"flowdash/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	Service ReportService
}

func NewReportController(service ReportService) *ReportController {
	return &ReportController{Service: service}
}

// Create stores a new report
// @Summary Create report
// @Tags reports
// @Accept json
// @Produce json
// @Router /api/reports [post]
func (ctrl *ReportController) Create(c *fiber.Ctx) error {
	var rep Report
	if err := c.BodyParser(&rep); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok {
		rep.CreatedBy = claims.UserID
	}

	if err := ctrl.Service.CreateReport(c.Context(), &rep); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(rep)
}

// List returns all saved reports
// @Summary List reports
// @Tags reports
// @Produce json
// @Router /api/reports [get]
func (ctrl *ReportController) List(c *fiber.Ctx) error {
	reports, err := ctrl.Service.ListReports(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(reports)
}

// Get returns one report by ID
// @Summary Get report
// @Tags reports
// @Produce json
// @Param id path string true "Report ID"
// @Router /api/reports/{id} [get]
func (ctrl *ReportController) Get(c *fiber.Ctx) error {
	rep, err := ctrl.Service.GetReport(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "report not found"})
	}
	return c.JSON(rep)
}

// Update replaces a report's title, description and config
// @Summary Update report
// @Tags reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Router /api/reports/{id} [put]
func (ctrl *ReportController) Update(c *fiber.Ctx) error {
	var rep Report
	if err := c.BodyParser(&rep); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := ctrl.Service.UpdateReport(c.Context(), c.Params("id"), &rep); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rep)
}

// Delete removes a report
// @Summary Delete report
// @Tags reports
// @Param id path string true "Report ID"
// @Router /api/reports/{id} [delete]
func (ctrl *ReportController) Delete(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteReport(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
