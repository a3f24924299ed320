package service

import (
	"bytes"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"net/http"
	"strings"

	"aura/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	CoverMaxSize     = 1080
	CoverWebPQuality = 78
)

// MediaService sniffs uploaded media and produces WebP cover thumbnails.
type MediaService struct{}

// NewMediaService creates a new media service
func NewMediaService() *MediaService {
	return &MediaService{}
}

// Sniff inspects the first bytes of an upload and returns the content type
// plus the tipo discriminator exclusive content is stored under. The
// client-declared type is ignored; only the bytes decide.
func (s *MediaService) Sniff(head []byte) (contentType, tipo string) {
	contentType = http.DetectContentType(head)
	switch {
	case strings.HasPrefix(contentType, "image/"):
		tipo = models.TipoImagen
	case strings.HasPrefix(contentType, "video/"):
		tipo = models.TipoVideo
	default:
		tipo = models.TipoDocumento
	}
	return contentType, tipo
}

// CoverThumbnail decodes an uploaded cover image, scales it to fit
// CoverMaxSize, and re-encodes it as WebP. Non-image input is an error.
func (s *MediaService) CoverThumbnail(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, models.NewValidationError("La imagen de portada no es válida")
	}
	return encodeWebP(resizeToFit(img, CoverMaxSize, CoverMaxSize), CoverWebPQuality)
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
