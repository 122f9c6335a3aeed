package group

import (
	"github.com/gofiber/fiber/v2"
)

type GroupController struct {
	Service GroupService
}

func NewGroupController(service GroupService) *GroupController {
	return &GroupController{Service: service}
}

// ListGroups returns all contact groups
// @Summary List groups
// @Tags groups
// @Produce json
// @Router /api/groups [get]
func (ctrl *GroupController) ListGroups(c *fiber.Ctx) error {
	groups, err := ctrl.Service.ListGroups(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(groups)
}

// GetGroup returns one group by UUID
// @Summary Get group
// @Tags groups
// @Produce json
// @Param uuid path string true "Group UUID"
// @Router /api/groups/{uuid} [get]
func (ctrl *GroupController) GetGroup(c *fiber.Ctx) error {
	group, err := ctrl.Service.GetGroup(c.Context(), c.Params("uuid"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "group not found"})
	}
	return c.JSON(group)
}

// RefreshCounts recomputes membership counts for all groups
// @Summary Refresh group counts
// @Tags groups
// @Router /api/groups/refresh-counts [post]
func (ctrl *GroupController) RefreshCounts(c *fiber.Ctx) error {
	refreshed, err := ctrl.Service.RefreshCounts(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"refreshed": refreshed})
}
