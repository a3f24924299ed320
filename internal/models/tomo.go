package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList is a []string stored as a JSON column. Both Postgres and the
// sqlite test driver round-trip it as text.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// Tomo is a Carpanta volume: an editor-composed publication with an HTML
// body and an ordered set of images. Borrador plays the role of the
// moderation flag: true is pending review, false is published.
type Tomo struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Titulo        string `gorm:"not null" json:"titulo"`
	Slug          string `gorm:"index" json:"slug"`
	ContenidoHTML string `gorm:"type:text" json:"contenido_html"`
	Autor         string `json:"autor"`
	// ImagenURL duplicates the first entry of ImagenesURLs for clients
	// that only render a single cover.
	ImagenURL    string     `json:"imagen_url"`
	ImagenesURLs StringList `gorm:"type:text" json:"imagenes_urls"`
	// StorageKeys mirrors ImagenesURLs with the removable object keys.
	StorageKeys      StringList `gorm:"type:text" json:"-"`
	Link             *string    `json:"link,omitempty"`
	Borrador         bool       `gorm:"default:true;index" json:"borrador"`
	FechaPublicacion time.Time  `json:"fecha_publicacion"`
	CreatedAt        time.Time  `json:"-"`
	UpdatedAt        time.Time  `json:"-"`
}
