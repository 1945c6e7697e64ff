package repository

import (
	"strings"

	"github.com/minegocio/backend/internal/app/model"
	"github.com/minegocio/backend/pkg/logger"
	"gorm.io/gorm"
)

type UsuarioRepository interface {
	Create(usuario *model.Usuario) error
	FindByID(id uint) (*model.Usuario, error)
	FindByNombreUsuario(nombreUsuario string) (*model.Usuario, error)
	Update(usuario *model.Usuario) error
	Search(term string, limit int) ([]model.Usuario, error)
}

type usuarioRepository struct {
	db *gorm.DB
}

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository {
	return &usuarioRepository{db: db}
}

func (r *usuarioRepository) Create(usuario *model.Usuario) error {
	logger.Debug("Creating usuario in database", map[string]interface{}{
		"nombre_usuario": usuario.NombreUsuario,
	})

	if err := r.db.Create(usuario).Error; err != nil {
		logger.Error("Failed to create usuario in database", err, map[string]interface{}{
			"nombre_usuario": usuario.NombreUsuario,
		})
		return err
	}

	logger.Debug("Usuario created in database", map[string]interface{}{
		"user_id":        usuario.ID,
		"nombre_usuario": usuario.NombreUsuario,
	})
	return nil
}

func (r *usuarioRepository) FindByID(id uint) (*model.Usuario, error) {
	var usuario model.Usuario
	err := r.db.First(&usuario, id).Error
	if err != nil {
		logger.Debug("Failed to find usuario by ID in database", map[string]interface{}{
			"user_id": id,
			"error":   err.Error(),
		})
		return nil, err
	}
	return &usuario, nil
}

func (r *usuarioRepository) FindByNombreUsuario(nombreUsuario string) (*model.Usuario, error) {
	var usuario model.Usuario
	err := r.db.Where("nombre_usuario = ?", nombreUsuario).First(&usuario).Error
	if err != nil {
		logger.Debug("Failed to find usuario by nombre_usuario in database", map[string]interface{}{
			"nombre_usuario": nombreUsuario,
			"error":          err.Error(),
		})
		return nil, err
	}
	return &usuario, nil
}

func (r *usuarioRepository) Update(usuario *model.Usuario) error {
	logger.Debug("Updating usuario in database", map[string]interface{}{
		"user_id": usuario.ID,
	})

	if err := r.db.Save(usuario).Error; err != nil {
		logger.Error("Failed to update usuario in database", err, map[string]interface{}{
			"user_id": usuario.ID,
		})
		return err
	}
	return nil
}

// Search finds usuarios whose nombre_usuario or nombre contains term
// (case-insensitive). An empty term returns everyone up to limit.
func (r *usuarioRepository) Search(term string, limit int) ([]model.Usuario, error) {
	var usuarios []model.Usuario

	query := r.db.Order("nombre_usuario asc")
	if term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(nombre_usuario) LIKE ? OR LOWER(nombre) LIKE ?", pattern, pattern)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&usuarios).Error; err != nil {
		logger.Error("Failed to search usuarios in database", err, map[string]interface{}{
			"term": term,
		})
		return nil, err
	}
	return usuarios, nil
}
