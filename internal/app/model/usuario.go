package model

import (
	"time"
)

type Usuario struct {
	ID               uint      `gorm:"primarykey" json:"id_usuario"`                     // ID de usuario
	NombreUsuario    string    `gorm:"uniqueIndex;not null" json:"nombre_usuario"`       // Nombre de usuario (login)
	Nombre           string    `gorm:"not null" json:"nombre"`                           // Nombre completo
	DNI              string    `gorm:"column:dni;uniqueIndex;not null" json:"dni"`       // Documento nacional de identidad
	Email            string    `gorm:"uniqueIndex;not null" json:"email"`                // Correo electrónico
	NumeroTelefono   string    `json:"numero_telefono"`                                  // Teléfono (opcional)
	PasswordHash     string    `gorm:"not null" json:"-"`                                // Hash de la contraseña
	Consentimiento   bool      `gorm:"default:false" json:"consentimiento"`              // Consentimiento de datos
	Validado         bool      `gorm:"default:false" json:"validado"`                    // Cuenta validada por código
	CodigoValidacion *string   `json:"-"`                                                // Código de validación pendiente
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Negocios []UsuarioNegocio `gorm:"foreignKey:UsuarioID" json:"negocios,omitempty"`
}

func (Usuario) TableName() string {
	return "usuarios"
}
