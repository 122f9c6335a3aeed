package system

import (
	"flowdash/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type DebugController struct{}

func NewDebugController() *DebugController {
	return &DebugController{}
}

// GetCurrentUser echoes the JWT claims the auth middleware resolved.
func (c *DebugController) GetCurrentUser(ctx *fiber.Ctx) error {
	claims, _ := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if claims == nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "No claims in context",
		})
	}

	return ctx.JSON(fiber.Map{
		"user_id": claims.UserID,
		"roles":   claims.Roles,
	})
}
