package server

import "github.com/gofiber/fiber/v2"

// GetNotifications handles GET /api/notifications
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{notifications=[]models.Notification,unread_count=int}
// @Failure 401 {object} models.ErrorResponse
// @Router /notifications [get]
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	items, err := s.notifications.List(c.UserContext())
	if err != nil {
		return s.respondServiceError(c, err)
	}
	unread := 0
	for _, n := range items {
		if !n.Read {
			unread++
		}
	}
	return c.JSON(fiber.Map{
		"notifications": items,
		"unread_count":  unread,
	})
}
