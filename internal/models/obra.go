package models

import "time"

// Anonimo is the sentinel stored in Contacto/Autor when the submitter chose
// the anonymous toggle. Clients compare against it verbatim.
const Anonimo = "Anónimo"

// Obra is a user-submitted creative work awaiting or past moderation.
//
// Moderation states map onto the row as follows: Pending is Aprobada=false,
// Approved is Aprobada=true, and Deleted removes the row entirely (there is
// no transition out of Deleted). An obra is visible in the public gallery
// iff Aprobada is true.
type Obra struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Titulo      string `gorm:"not null" json:"titulo"`
	Autor       string `json:"autor"`
	Descripcion string `gorm:"type:text" json:"descripcion"`
	Contacto    string `json:"contacto"`
	FileURL     string `gorm:"not null" json:"url_archivo"`
	// StorageKey is recorded at upload time so deletion never has to
	// re-derive the object key from the public URL.
	StorageKey string `json:"-"`
	Aprobada   bool   `gorm:"default:false;index" json:"aprobada"`
	// Likes is the denormalized counter mirroring the obra_likes rows.
	Likes int `gorm:"default:0" json:"likes"`
	// HasLiked indicates whether the requesting user liked this obra (computed)
	HasLiked  bool      `gorm:"->" json:"has_liked"`
	Fecha     time.Time `gorm:"autoCreateTime" json:"fecha"`
	UpdatedAt time.Time `json:"-"`
}

// ObraLike is one user's like on one obra. The (UserID, ObraID) pair is
// unique; the row is hard-deleted on unlike so at most one exists at a time.
type ObraLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_obra" json:"user_id"`
	ObraID    uint      `gorm:"not null;uniqueIndex:idx_user_obra" json:"obra_id"`
	CreatedAt time.Time `json:"created_at"`
}
