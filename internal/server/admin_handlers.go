package server

import (
	"bytes"
	"fmt"

	"socialautomator/internal/models"
	"socialautomator/internal/service"
	"socialautomator/internal/usertable"

	"github.com/gofiber/fiber/v2"
)

const defaultActivityLimit = 50

// GetContentInsights handles GET /api/admin/content-insights
// @Summary Content insights
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ContentInsights
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/content-insights [get]
func (s *Server) GetContentInsights(c *fiber.Ctx) error {
	insights, err := s.analyticsService.ContentInsights(c.UserContext())
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(insights)
}

// QueryUsers handles GET /api/admin/users?search=&sort=&dir=
// @Summary Query managed users
// @Description Filter and sort managed users without touching the saved table state
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Case-insensitive name or email search"
// @Param sort query string false "Sort field" Enums(name, email, role, status, postsCount, lastActive)
// @Param dir query string false "Sort direction" Enums(asc, desc)
// @Success 200 {array} models.ManagedUser
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/users [get]
func (s *Server) QueryUsers(c *fiber.Ctx) error {
	rows, err := s.adminService.QueryUsers(c.UserContext(), service.QueryUsersInput{
		Search:    c.Query("search"),
		Sort:      c.Query("sort"),
		Direction: c.Query("dir"),
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(rows)
}

func (s *Server) respondTable(c *fiber.Ctx, view *service.TableView, err error) error {
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(view)
}

// GetUserTable handles GET /api/admin/users/table
// @Summary User table state
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.TableView
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/users/table [get]
func (s *Server) GetUserTable(c *fiber.Ctx) error {
	view, err := s.adminService.Table(c.UserContext(), currentSession(c).User.ID)
	return s.respondTable(c, view, err)
}

// SetUserTableSearch handles PUT /api/admin/users/table/search
// @Summary Set table search
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{search=string} true "Search query"
// @Success 200 {object} service.TableView
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/users/table/search [put]
func (s *Server) SetUserTableSearch(c *fiber.Ctx) error {
	var req struct {
		Search string `json:"search"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	view, err := s.adminService.SetSearch(c.UserContext(), currentSession(c).User.ID, req.Search)
	return s.respondTable(c, view, err)
}

// ToggleUserTableSort handles POST /api/admin/users/table/sort
// @Summary Toggle table sort
// @Description Sort by a field, flipping the direction when it is already the sort field
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{field=string} true "Sort field"
// @Success 200 {object} service.TableView
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/users/table/sort [post]
func (s *Server) ToggleUserTableSort(c *fiber.Ctx) error {
	var req struct {
		Field string `json:"field"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	view, err := s.adminService.ToggleSort(c.UserContext(), currentSession(c).User.ID, req.Field)
	return s.respondTable(c, view, err)
}

// ToggleUserSelection handles POST /api/admin/users/table/select/:id
// @Summary Toggle row selection
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} service.TableView
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/table/select/{id} [post]
func (s *Server) ToggleUserSelection(c *fiber.Ctx) error {
	view, err := s.adminService.ToggleSelect(c.UserContext(), currentSession(c).User.ID, c.Params("id"))
	return s.respondTable(c, view, err)
}

// SelectAllUsers handles POST /api/admin/users/table/select-all
// @Summary Select or clear all rows
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{checked=bool} true "Select all when true"
// @Success 200 {object} service.TableView
// @Router /admin/users/table/select-all [post]
func (s *Server) SelectAllUsers(c *fiber.Ctx) error {
	var req struct {
		Checked bool `json:"checked"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	view, err := s.adminService.SelectAll(c.UserContext(), currentSession(c).User.ID, req.Checked)
	return s.respondTable(c, view, err)
}

// BulkUserAction handles POST /api/admin/users/table/bulk/:action
// @Summary Bulk action on selected users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param action path string true "Bulk action" Enums(activate, deactivate, delete)
// @Success 200 {object} usertable.BulkResult
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/users/table/bulk/{action} [post]
func (s *Server) BulkUserAction(c *fiber.Ctx) error {
	res, err := s.adminService.Bulk(c.UserContext(), currentSession(c).User, c.Params("action"))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(res)
}

// ExportUsers handles GET /api/admin/users/table/export
// @Summary Export users as CSV
// @Tags admin
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/users/table/export [get]
func (s *Server) ExportUsers(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := s.adminService.Export(c.UserContext(), currentSession(c).User.ID, &buf); err != nil {
		return s.respondServiceError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", usertable.ExportFilename))
	return c.Send(buf.Bytes())
}

// ChangeUserStatus handles POST /api/admin/users/:id/status
// @Summary Change account status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body object{status=string} true "New status"
// @Success 200 {object} service.StatusChange
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/{id}/status [post]
func (s *Server) ChangeUserStatus(c *fiber.Ctx) error {
	var req struct {
		Status models.AccountStatus `json:"status"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	change, err := s.adminService.ChangeStatus(c.UserContext(), currentSession(c).User, c.Params("id"), req.Status)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(change)
}

// GetSettings handles GET /api/admin/settings
// @Summary System settings
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.SystemSettings
// @Router /admin/settings [get]
func (s *Server) GetSettings(c *fiber.Ctx) error {
	settings, err := s.adminService.Settings(c.UserContext())
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(settings)
}

// UpdateSettings handles PUT /api/admin/settings
// @Summary Update system settings
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SystemSettings true "Settings"
// @Success 200 {object} models.SystemSettings
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/settings [put]
func (s *Server) UpdateSettings(c *fiber.Ctx) error {
	var in models.SystemSettings
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	settings, err := s.adminService.UpdateSettings(c.UserContext(), currentSession(c).User, in)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(settings)
}

// ResetSettings handles POST /api/admin/settings/reset
// @Summary Reset system settings
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.SystemSettings
// @Router /admin/settings/reset [post]
func (s *Server) ResetSettings(c *fiber.Ctx) error {
	settings, err := s.adminService.ResetSettings(c.UserContext(), currentSession(c).User)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(settings)
}

// GetActivity handles GET /api/admin/activity?limit=
// @Summary Activity log
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries" default(50)
// @Success 200 {array} models.ActivityEntry
// @Router /admin/activity [get]
func (s *Server) GetActivity(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultActivityLimit)
	entries, err := s.adminService.Activity(c.UserContext(), limit)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(entries)
}
