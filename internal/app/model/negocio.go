package model

import (
	"time"
)

type Negocio struct {
	ID        uint      `gorm:"primarykey" json:"id"`             // ID de negocio
	Nombre    string    `gorm:"not null" json:"nombre"`           // Nombre del negocio
	CIF       string    `gorm:"column:cif;uniqueIndex;not null" json:"CIF"` // Identificación fiscal
	Plantilla int       `gorm:"default:0" json:"plantilla"`       // Plantilla (reservado, siempre 0)
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Usuarios []UsuarioNegocio `gorm:"foreignKey:NegocioID" json:"usuarios,omitempty"`
}

func (Negocio) TableName() string {
	return "negocios"
}
