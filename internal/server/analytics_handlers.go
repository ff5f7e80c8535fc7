package server

import (
	"socialautomator/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetAnalyticsOverview handles GET /api/analytics/overview
// @Summary Analytics overview
// @Description Aggregate follower, engagement and impression figures across platforms
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.AnalyticsOverview
// @Failure 401 {object} models.ErrorResponse
// @Router /analytics/overview [get]
func (s *Server) GetAnalyticsOverview(c *fiber.Ctx) error {
	overview, err := s.analyticsService.Overview(c.UserContext())
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(overview)
}

// GetAnalyticsTimeline handles GET /api/analytics/timeline?days=
// @Summary Engagement timeline
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param days query int false "Trailing window in days"
// @Success 200 {array} models.TimelinePoint
// @Failure 400 {object} models.ErrorResponse
// @Router /analytics/timeline [get]
func (s *Server) GetAnalyticsTimeline(c *fiber.Ctx) error {
	days := 0
	if raw := c.Query("days"); raw != "" {
		n := c.QueryInt("days", -1)
		if n <= 0 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("days must be a positive integer"))
		}
		days = n
	}

	points, err := s.analyticsService.Timeline(c.UserContext(), days)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(points)
}

// GetPlatformAnalytics handles GET /api/analytics/platforms/:platform
// @Summary Platform analytics
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param platform path string true "Platform" Enums(twitter, instagram, facebook, linkedin)
// @Success 200 {object} models.AnalyticsData
// @Failure 404 {object} models.ErrorResponse
// @Router /analytics/platforms/{platform} [get]
func (s *Server) GetPlatformAnalytics(c *fiber.Ctx) error {
	data, err := s.analyticsService.Platform(c.UserContext(), models.Platform(c.Params("platform")))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(data)
}
