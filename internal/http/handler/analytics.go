package handler

import (
	"github.com/gofiber/fiber/v2"

	"leadengine/internal/service"
)

// DashboardStats returns the aggregate dashboard view for the caller.
func DashboardStats(analytics service.AnalyticsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := analytics.Dashboard(c.UserContext(), currentUser(c).ID)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(d)
	}
}
