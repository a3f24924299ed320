package server

import (
	"aura/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// RegisterAdministrador handles POST /api/administradores, the legacy admin
// registration endpoint. Passwords are stored as bcrypt hashes.
func (s *Server) RegisterAdministrador(c *fiber.Ctx) error {
	var req struct {
		Usuario    string `json:"usuario"`
		Contrasena string `json:"contrasena"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Cuerpo de la petición inválido"))
	}

	if req.Usuario == "" || req.Contrasena == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Usuario y contraseña son obligatorios"))
	}

	exists, err := s.adminRepo.UsuarioExists(c.Context(), req.Usuario)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if exists {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("El usuario ya existe"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Contrasena), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	admin := &models.Administrador{
		Usuario:        req.Usuario,
		ContrasenaHash: string(hash),
	}
	if createErr := s.adminRepo.Create(c.Context(), admin); createErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(createErr))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"mensaje": "Administrador registrado",
		"usuario": admin.Usuario,
	})
}

// LoginAdministrador handles POST /api/admin-login. A successful login
// answers with the same JWT the regular auth flow issues.
func (s *Server) LoginAdministrador(c *fiber.Ctx) error {
	var req struct {
		Usuario    string `json:"usuario"`
		Contrasena string `json:"contrasena"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Cuerpo de la petición inválido"))
	}

	if req.Usuario == "" || req.Contrasena == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Usuario y contraseña son obligatorios"))
	}

	admin, err := s.adminRepo.GetByUsuario(c.Context(), req.Usuario)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Credenciales inválidas"))
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(admin.ContrasenaHash), []byte(req.Contrasena)); cmpErr != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Credenciales inválidas"))
	}

	token, err := s.generateAdminToken(admin.ID, admin.Usuario)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"mensaje": "Inicio de sesión correcto",
		"token":   token,
	})
}
