package contact

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type ContactController struct {
	Service ContactService
}

func NewContactController(service ContactService) *ContactController {
	return &ContactController{Service: service}
}

// ListContacts returns a page of synced contacts
// @Summary List contacts
// @Tags contacts
// @Produce json
// @Router /api/contacts [get]
func (ctrl *ContactController) ListContacts(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "50"), 10, 64)

	contacts, total, err := ctrl.Service.ListContacts(c.Context(), page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"results": contacts,
		"total":   total,
	})
}
