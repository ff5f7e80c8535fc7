package server

import (
	"socialautomator/internal/models"
	"socialautomator/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts?status=
// @Summary List posts
// @Description List posts newest first, optionally filtered by status
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param status query string false "Post status" Enums(draft, scheduled, published, failed)
// @Success 200 {array} models.Post
// @Failure 401 {object} models.ErrorResponse
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.List(c.UserContext(), service.ListPostsInput{
		Status: models.PostStatus(c.Query("status")),
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
// @Summary Get post
// @Description Get a single post by ID
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} models.Post
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.GetPost(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts
// @Summary Compose post
// @Description Create a draft, or a scheduled post when both schedule fields are set
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ComposeInput true "Post content"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var in service.ComposeInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	post, err := s.postService.Compose(c.UserContext(), currentSession(c).User, in)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
// @Summary Replace post
// @Description Replace the editable fields of a post, keeping its engagement
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body service.ComposeInput true "Post content"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	var in service.ComposeInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	post, err := s.postService.Replace(c.UserContext(), currentSession(c).User, c.Params("id"), in)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	if err := s.postService.Delete(c.UserContext(), currentSession(c).User, c.Params("id")); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// GetPostStats handles GET /api/posts/stats
// @Summary Post statistics
// @Description Count posts per status and sum engagement
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.PostStats
// @Router /posts/stats [get]
func (s *Server) GetPostStats(c *fiber.Ctx) error {
	stats, err := s.postService.Stats(c.UserContext())
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(stats)
}
