package validation

import (
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"aura/internal/models"

	"github.com/stretchr/testify/assert"
)

func fileHeader(size int64, contentType string) *multipart.FileHeader {
	h := &multipart.FileHeader{
		Filename: "obra.png",
		Size:     size,
		Header:   textproto.MIMEHeader{},
	}
	if contentType != "" {
		h.Header.Set("Content-Type", contentType)
	}
	return h
}

func TestValidateObraSubmission(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		titulo   string
		autor    string
		contacto string
		anonimo  bool
		file     *multipart.FileHeader
		wantErr  bool
	}{
		{"Valid", "Mi Obra", "Ana", "@ana", false, fileHeader(1024, "image/png"), false},
		{"No Declared Type", "Mi Obra", "Ana", "@ana", false, fileHeader(1024, ""), false},
		{"Missing Title", "   ", "Ana", "@ana", false, fileHeader(1024, "image/png"), true},
		{"Title Too Long", strings.Repeat("a", 201), "Ana", "@ana", false, fileHeader(1024, "image/png"), true},
		{"Missing Autor", "Mi Obra", "   ", "@ana", false, fileHeader(1024, "image/png"), true},
		{"Missing Contacto", "Mi Obra", "Ana", "", false, fileHeader(1024, "image/png"), true},
		{"Anonimo Allows Blank Autor And Contacto", "Mi Obra", "", "", true, fileHeader(1024, "image/png"), false},
		{"Missing File", "Mi Obra", "Ana", "@ana", false, nil, true},
		{"Empty File", "Mi Obra", "Ana", "@ana", false, fileHeader(0, "image/png"), true},
		{"Over Size Limit", "Mi Obra", "Ana", "@ana", false, fileHeader(30<<20, "image/png"), true},
		{"Disallowed Type", "Mi Obra", "Ana", "@ana", false, fileHeader(1024, "application/zip"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateObraSubmission(tt.titulo, tt.autor, tt.contacto, tt.anonimo, tt.file, 25<<20)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTipoContenido(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateTipoContenido(models.TipoImagen))
	assert.NoError(t, ValidateTipoContenido(models.TipoVideo))
	assert.NoError(t, ValidateTipoContenido(models.TipoDocumento))
	assert.Error(t, ValidateTipoContenido("audio"))
	assert.Error(t, ValidateTipoContenido(""))
}
