package server

import (
	"mime/multipart"

	"aura/internal/models"
	"aura/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetTomos handles GET /api/tomos, listing published tomos newest first.
func (s *Server) GetTomos(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	tomos, err := s.tomoRepo.ListPublished(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"tomos":  tomos,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

// GetTomoBySlug handles GET /api/tomos/:slug. Drafts are not reachable here.
func (s *Server) GetTomoBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid slug"))
	}

	tomo, err := s.tomoRepo.GetPublishedBySlug(c.UserContext(), slug)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(tomo)
}

// GetAllTomos handles GET /api/admin/tomos, drafts included.
func (s *Server) GetAllTomos(c *fiber.Ctx) error {
	p := parsePagination(c, 50)

	tomos, err := s.tomoRepo.ListAll(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"tomos":  tomos,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

// CreateTomo handles POST /api/admin/tomos. Multipart: titulo,
// contenido_html, autor, link, borrador plus an optional portada file and
// repeated imagenes files.
func (s *Server) CreateTomo(c *fiber.Ctx) error {
	in := service.CreateTomoInput{
		Titulo:        c.FormValue("titulo"),
		ContenidoHTML: c.FormValue("contenido_html"),
		Autor:         c.FormValue("autor"),
		Borrador:      c.FormValue("borrador") != "false",
	}
	if link := c.FormValue("link"); link != "" {
		in.Link = &link
	}
	in.Portada, in.Imagenes = tomoFiles(c)

	tomo, err := s.tomoService.CreateTomo(c.UserContext(), in)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(tomo)
}

// UpdateTomo handles PUT /api/admin/tomos/:id. The slug never changes after
// creation, even when the title does.
func (s *Server) UpdateTomo(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondAppError(c, err)
	}

	in := service.UpdateTomoInput{
		ID:            id,
		Titulo:        c.FormValue("titulo"),
		ContenidoHTML: c.FormValue("contenido_html"),
		Autor:         c.FormValue("autor"),
	}
	if link := c.FormValue("link"); link != "" {
		in.Link = &link
	}
	in.Portada, _ = tomoFiles(c)

	tomo, err := s.tomoService.UpdateTomo(c.UserContext(), in)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(tomo)
}

// PublishTomo handles POST /api/admin/tomos/:id/publicar
func (s *Server) PublishTomo(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondAppError(c, err)
	}

	if err := s.tomoService.PublishTomo(c.UserContext(), id); err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Tomo publicado"})
}

// UnpublishTomo handles POST /api/admin/tomos/:id/despublicar
func (s *Server) UnpublishTomo(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondAppError(c, err)
	}

	if err := s.tomoService.UnpublishTomo(c.UserContext(), id); err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Tomo despublicado"})
}

// DeleteTomo handles DELETE /api/admin/tomos/:id
func (s *Server) DeleteTomo(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondAppError(c, err)
	}

	if err := s.tomoService.DeleteTomo(c.UserContext(), id); err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Tomo eliminado"})
}

// tomoFiles pulls the optional portada upload and the repeated imagenes
// uploads out of a multipart tomo form.
func tomoFiles(c *fiber.Ctx) (portada *multipart.FileHeader, imagenes []*multipart.FileHeader) {
	if fh, err := c.FormFile("portada"); err == nil {
		portada = fh
	}
	if form, err := c.MultipartForm(); err == nil && form != nil {
		imagenes = form.File["imagenes"]
	}
	return portada, imagenes
}
