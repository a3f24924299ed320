package server

import (
	"context"
	"errors"
	"strings"

	"aura/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const (
	maxPaginationLimit = 100
)

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts a route parameter by name as a positive uint. Failures
// surface as validation errors, which respondAppError renders as a 400.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		label := param
		if label == "id" {
			label = "ID"
		}
		return 0, models.NewValidationError("Invalid " + label)
	}
	return uint(id), nil
}

// respondAppError maps an AppError code onto the right HTTP status.
// Bare gorm.ErrRecordNotFound from the repository layer is a 404 as well.
func respondAppError(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			&models.AppError{Code: models.CodeNotFound, Message: "Resource not found"})
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return models.RespondWithError(c, appErr.HTTPStatus(), appErr)
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}

// isAdmin checks whether the given user has admin privileges.
func (s *Server) isAdmin(c *fiber.Ctx, userID uint) (bool, error) {
	return s.isAdminByUserID(c.Context(), userID)
}

// isAdminByUserID grants admin to users flagged in the database or whose
// email is on the configured allow-list.
func (s *Server) isAdminByUserID(ctx context.Context, userID uint) (bool, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Select("is_admin", "email").First(&user, userID).Error; err != nil {
		return false, err
	}
	if user.IsAdmin {
		return true, nil
	}
	email := strings.ToLower(user.Email)
	for _, allowed := range s.config.AdminEmailList() {
		if email == allowed {
			return true, nil
		}
	}
	return false, nil
}
