package server

import (
	"log/slog"
	"strconv"
	"time"

	"aura/internal/middleware"
	"aura/internal/models"
	"aura/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = 15 * time.Minute

// ForgotPassword handles POST /api/auth/forgot-password. The response never
// reveals whether the account exists. Reset tokens live in Redis; delivery
// to the user is an operator concern, so the token is only logged here.
func (s *Server) ForgotPassword(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Email is required"))
	}

	generic := func() error {
		return c.JSON(fiber.Map{
			"message": "If that account exists, a reset link has been sent",
		})
	}

	if s.redis == nil {
		return generic()
	}

	user, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return generic()
	}

	token := uuid.New().String()
	if err := s.redis.Set(c.Context(), "pwreset:"+token,
		strconv.FormatUint(uint64(user.ID), 10), resetTokenTTL).Err(); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "Failed to store password reset token",
			slog.String("error", err.Error()))
		return generic()
	}

	middleware.Logger.InfoContext(c.UserContext(), "Password reset token issued",
		slog.Uint64("user_id", uint64(user.ID)),
		slog.String("token", token),
	)

	return generic()
}

// UpdatePassword handles POST /api/auth/update-password. Two paths: a reset
// token from the forgot-password flow, or a logged-in user presenting their
// current password.
func (s *Server) UpdatePassword(c *fiber.Ctx) error {
	var req struct {
		Token           string `json:"token"`
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidatePassword(req.NewPassword); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	var userID uint
	switch {
	case req.Token != "":
		if s.redis == nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired reset token"))
		}
		stored, err := s.redis.Get(c.Context(), "pwreset:"+req.Token).Result()
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired reset token"))
		}
		id, err := strconv.ParseUint(stored, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired reset token"))
		}
		userID = uint(id)
	default:
		claims, ok := s.parseTokenClaims(c)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}
		sub, _ := claims["sub"].(string)
		id, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}
		userID = uint(id)
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return respondAppError(c, err)
	}

	// The session path re-checks the current password; the token itself is
	// proof of control on the reset path.
	if req.Token == "" {
		if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); cmpErr != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Current password is incorrect"))
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	user.Password = string(hashed)
	if updErr := s.userRepo.Update(c.Context(), user); updErr != nil {
		return respondAppError(c, updErr)
	}

	if req.Token != "" && s.redis != nil {
		s.redis.Del(c.Context(), "pwreset:"+req.Token)
	}

	return c.JSON(fiber.Map{"message": "Password updated"})
}
