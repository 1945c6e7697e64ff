package model

import (
	"time"
)

type RolNegocio string // Rol de un usuario dentro de un negocio

const (
	RolAdmin      RolNegocio = "admin"      // Supervisión de plataforma, auto-asignado
	RolJefe       RolNegocio = "jefe"       // Gestión completa del negocio
	RolTrabajador RolNegocio = "trabajador" // Acceso sin derechos de gestión
)

// Valid reports whether r is one of the three known roles
func (r RolNegocio) Valid() bool {
	switch r {
	case RolAdmin, RolJefe, RolTrabajador:
		return true
	}
	return false
}

// Asignable reports whether r may be granted or set through the
// role-management API. Admin memberships are only ever system-assigned.
func (r RolNegocio) Asignable() bool {
	switch r {
	case RolJefe, RolTrabajador:
		return true
	case RolAdmin:
		return false
	}
	return false
}

// PuedeGestionar reports whether a member with rol r may manage the
// negocio's settings and its member roster
func (r RolNegocio) PuedeGestionar() bool {
	switch r {
	case RolAdmin, RolJefe:
		return true
	case RolTrabajador:
		return false
	}
	return false
}

// UsuarioNegocio grants a usuario a rol on a specific negocio.
// Absence of a row means no access.
type UsuarioNegocio struct {
	UsuarioID uint       `gorm:"primaryKey;autoIncrement:false" json:"id_usuario"`
	NegocioID uint       `gorm:"primaryKey;autoIncrement:false" json:"id_negocio"`
	Rol       RolNegocio `gorm:"type:varchar(20);not null" json:"rol"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Usuario Usuario `gorm:"foreignKey:UsuarioID" json:"usuario,omitempty"`
	Negocio Negocio `gorm:"foreignKey:NegocioID" json:"negocio,omitempty"`
}

func (UsuarioNegocio) TableName() string {
	return "usuario_negocios"
}
