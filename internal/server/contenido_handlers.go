package server

import (
	"aura/internal/models"
	"aura/internal/service"
	"aura/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetContenidos handles GET /api/contenido. An optional tipo query filters
// by media kind (imagen, video, documento).
func (s *Server) GetContenidos(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	userID := c.Locals("userID").(uint)

	tipo := c.Query("tipo")
	if tipo != "" {
		if err := validation.ValidateTipoContenido(tipo); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
	}

	items, err := s.contenidoService.ListContenido(c.UserContext(), tipo, p.Limit, p.Offset, userID)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"contenido": items,
		"limit":     p.Limit,
		"offset":    p.Offset,
	})
}

// GetContenido handles GET /api/contenido/:id
func (s *Server) GetContenido(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondAppError(c, err)
	}
	userID := c.Locals("userID").(uint)

	item, err := s.contenidoService.GetContenido(c.UserContext(), id, userID)
	if err != nil {
		return respondAppError(c, err)
	}
	if !item.Aprobada {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Contenido", id))
	}

	return c.JSON(item)
}

// ToggleContenidoLike handles POST /api/contenido/:id/like
func (s *Server) ToggleContenidoLike(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondAppError(c, err)
	}
	userID := c.Locals("userID").(uint)

	item, err := s.likeService.ToggleContenidoLike(c.UserContext(), userID, id)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"likes_count": item.LikesCount,
		"has_liked":   item.HasLiked,
	})
}

// GetPendingContenido handles GET /api/admin/contenido/pendientes
func (s *Server) GetPendingContenido(c *fiber.Ctx) error {
	p := parsePagination(c, 50)

	items, err := s.moderationService.ListPendingContenido(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"contenido": items,
		"limit":     p.Limit,
		"offset":    p.Offset,
	})
}

// CreateContenido handles POST /api/admin/contenido. Multipart: titulo,
// descripcion plus the archivo file; the media kind is sniffed from the
// uploaded bytes, never trusted from the client.
func (s *Server) CreateContenido(c *fiber.Ctx) error {
	file, err := c.FormFile("archivo")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("El archivo es obligatorio"))
	}

	in := service.CreateContenidoInput{
		Titulo:      c.FormValue("titulo"),
		Descripcion: c.FormValue("descripcion"),
		File:        file,
	}

	item, err := s.contenidoService.CreateContenido(c.UserContext(), in)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

// ApproveContenido handles POST /api/admin/contenido/:id/aprobar
func (s *Server) ApproveContenido(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondAppError(c, err)
	}

	if err := s.moderationService.ApproveContenido(c.UserContext(), id); err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Contenido aprobado"})
}

// DeleteContenido handles DELETE /api/admin/contenido/:id
func (s *Server) DeleteContenido(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondAppError(c, err)
	}

	if err := s.moderationService.DeleteContenido(c.UserContext(), id); err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Contenido eliminado"})
}
