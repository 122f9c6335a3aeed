package flow

import (
	"github.com/gofiber/fiber/v2"
)

type FlowController struct {
	Service FlowService
}

func NewFlowController(service FlowService) *FlowController {
	return &FlowController{Service: service}
}

// ListFlows returns all non-archived flows
// @Summary List flows
// @Tags flows
// @Produce json
// @Router /api/flows [get]
func (ctrl *FlowController) ListFlows(c *fiber.Ctx) error {
	flows, err := ctrl.Service.ListFlows(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(flows)
}

// GetFlow returns one flow by UUID
// @Summary Get flow
// @Tags flows
// @Produce json
// @Param uuid path string true "Flow UUID"
// @Router /api/flows/{uuid} [get]
func (ctrl *FlowController) GetFlow(c *fiber.Ctx) error {
	flow, err := ctrl.Service.GetFlow(c.Context(), c.Params("uuid"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "flow not found"})
	}
	return c.JSON(flow)
}
