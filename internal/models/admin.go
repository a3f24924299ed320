package models

import "time"

// Administrador is the legacy custom credential table behind the
// /api/administradores and /api/admin-login endpoints. Rows are created by
// registration and never updated or deleted in-app.
type Administrador struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Usuario        string    `gorm:"uniqueIndex;not null" json:"usuario"`
	ContrasenaHash string    `gorm:"not null" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName keeps the original table naming.
func (Administrador) TableName() string { return "administradores" }
