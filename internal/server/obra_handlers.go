package server

import (
	"aura/internal/cache"
	"aura/internal/models"
	"aura/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SubmitObra handles POST /api/obras. The form is multipart: titulo, autor,
// descripcion, contacto, anonimo plus the archivo file. Submissions land in
// the moderation queue; nothing is public until an admin approves it.
func (s *Server) SubmitObra(c *fiber.Ctx) error {
	file, err := c.FormFile("archivo")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("El archivo es obligatorio"))
	}

	in := service.SubmitObraInput{
		Titulo:      c.FormValue("titulo"),
		Autor:       c.FormValue("autor"),
		Descripcion: c.FormValue("descripcion"),
		Contacto:    c.FormValue("contacto"),
		Anonimo:     c.FormValue("anonimo") == "true",
		File:        file,
	}

	obra, err := s.submissionService.SubmitObra(c.UserContext(), in)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"mensaje": "Obra enviada con éxito, pendiente de aprobación",
		"obra":    obra,
	})
}

// GetObras handles GET /api/obras (the public gallery). Only approved obras
// are listed; a valid bearer token enriches each row with has_liked.
func (s *Server) GetObras(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)

	// Anonymous pages are identical for everyone, so they go through the cache.
	if userID == 0 && s.redis != nil {
		var obras []*models.Obra
		err := cache.Aside(c.UserContext(), cache.GalleryKey(p.Limit, p.Offset), &obras,
			cache.GalleryTTL, func() error {
				var loadErr error
				obras, loadErr = s.obraRepo.ListAprobadas(c.UserContext(), p.Limit, p.Offset, 0)
				return loadErr
			})
		if err != nil {
			return respondAppError(c, err)
		}
		return c.JSON(fiber.Map{
			"obras":  obras,
			"limit":  p.Limit,
			"offset": p.Offset,
		})
	}

	obras, err := s.obraRepo.ListAprobadas(c.UserContext(), p.Limit, p.Offset, userID)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"obras":  obras,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

// GetObra handles GET /api/obras/:id. Pending obras are invisible here.
func (s *Server) GetObra(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondAppError(c, err)
	}

	userID, _ := s.optionalUserID(c)
	obra, err := s.obraRepo.GetByID(c.UserContext(), id, userID)
	if err != nil {
		return respondAppError(c, err)
	}
	if !obra.Aprobada {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Obra", id))
	}

	return c.JSON(obra)
}

// ToggleObraLike handles POST /api/obras/:id/like
func (s *Server) ToggleObraLike(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondAppError(c, err)
	}
	userID := c.Locals("userID").(uint)

	obra, err := s.likeService.ToggleObraLike(c.UserContext(), userID, id)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"likes":     obra.Likes,
		"has_liked": obra.HasLiked,
	})
}

// GetPendingObras handles GET /api/admin/obras/pendientes
func (s *Server) GetPendingObras(c *fiber.Ctx) error {
	p := parsePagination(c, 50)

	obras, err := s.moderationService.ListPendingObras(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	total, err := s.moderationService.CountPendingObras(c.UserContext())
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"obras":  obras,
		"total":  total,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

// ApproveObra handles POST /api/admin/obras/:id/aprobar
func (s *Server) ApproveObra(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondAppError(c, err)
	}

	if err := s.moderationService.ApproveObra(c.UserContext(), id); err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Obra aprobada"})
}

// RevokeObra handles POST /api/admin/obras/:id/revocar, sending an approved
// obra back to the moderation queue.
func (s *Server) RevokeObra(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondAppError(c, err)
	}

	if err := s.moderationService.RevokeObra(c.UserContext(), id); err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Obra devuelta a pendientes"})
}

// DeleteObra handles DELETE /api/admin/obras/:id. The stored file goes first
// (best effort), then the row; there is no undo.
func (s *Server) DeleteObra(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondAppError(c, err)
	}

	if err := s.moderationService.DeleteObra(c.UserContext(), id); err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Obra eliminada"})
}
