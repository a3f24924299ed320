package validation

import (
	"fmt"
	"mime/multipart"
	"strings"

	"aura/internal/models"
)

// allowedUploadTypes lists the MIME types accepted for obra submissions.
var allowedUploadTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/webp":      {},
	"image/gif":       {},
	"application/pdf": {},
}

// ValidateObraSubmission checks a submission before anything is persisted.
// Autor and contacto are required unless the submission is anonymous, in
// which case the caller forces both to the sentinel. The file header may
// carry a client-declared content type, which is checked against the allow
// list when present.
func ValidateObraSubmission(titulo, autor, contacto string, anonimo bool, file *multipart.FileHeader, maxBytes int64) error {
	if strings.TrimSpace(titulo) == "" {
		return fmt.Errorf("el título es obligatorio")
	}
	if len(titulo) > 200 {
		return fmt.Errorf("el título no puede superar los 200 caracteres")
	}
	if !anonimo {
		if strings.TrimSpace(autor) == "" {
			return fmt.Errorf("el autor es obligatorio salvo en envíos anónimos")
		}
		if strings.TrimSpace(contacto) == "" {
			return fmt.Errorf("el contacto es obligatorio salvo en envíos anónimos")
		}
	}
	if file == nil {
		return fmt.Errorf("el archivo es obligatorio")
	}
	if file.Size <= 0 {
		return fmt.Errorf("el archivo está vacío")
	}
	if maxBytes > 0 && file.Size > maxBytes {
		return fmt.Errorf("el archivo supera el tamaño máximo permitido")
	}
	if ct := file.Header.Get("Content-Type"); ct != "" {
		if _, ok := allowedUploadTypes[ct]; !ok {
			return fmt.Errorf("tipo de archivo no permitido: %s", ct)
		}
	}
	return nil
}

// ValidateTipoContenido checks the tipo discriminator of exclusive content.
func ValidateTipoContenido(tipo string) error {
	switch tipo {
	case models.TipoImagen, models.TipoVideo, models.TipoDocumento:
		return nil
	default:
		return fmt.Errorf("tipo de contenido inválido: %q", tipo)
	}
}
