package models

import "time"

// Media kinds for exclusive content, sniffed from the uploaded bytes.
const (
	TipoImagen    = "imagen"
	TipoVideo     = "video"
	TipoDocumento = "documento"
)

// ContenidoExclusivo is a BlackSirena exclusive-content item. It follows the
// same moderation and like protocol as Obra but carries a sniffed media kind
// so clients can pick the right renderer.
type ContenidoExclusivo struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Titulo      string `gorm:"not null" json:"titulo"`
	Descripcion string `gorm:"type:text" json:"descripcion"`
	Tipo        string `gorm:"not null" json:"tipo"`
	FileURL     string `gorm:"not null" json:"url_archivo"`
	StorageKey  string `json:"-"`
	Aprobada    bool   `gorm:"default:false;index" json:"aprobada"`
	LikesCount  int    `gorm:"default:0" json:"likes_count"`
	// HasLiked indicates whether the requesting user liked this item (computed)
	HasLiked  bool      `gorm:"->" json:"has_liked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// TableName keeps the original table naming.
func (ContenidoExclusivo) TableName() string { return "contenido_exclusivo" }

// ContenidoLike is one user's like on one exclusive-content item; unique per
// (UserID, ContenidoID) and hard-deleted on unlike.
type ContenidoLike struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_user_contenido" json:"user_id"`
	ContenidoID uint      `gorm:"not null;uniqueIndex:idx_user_contenido" json:"contenido_id"`
	CreatedAt   time.Time `json:"created_at"`
}
