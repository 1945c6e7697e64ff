package repository

import (
	"strings"

	"github.com/minegocio/backend/internal/app/model"
	"github.com/minegocio/backend/pkg/logger"
	"gorm.io/gorm"
)

type UsuarioNegocioRepository interface {
	Create(membresia *model.UsuarioNegocio) error
	Find(usuarioID, negocioID uint) (*model.UsuarioNegocio, error)
	FindByNegocio(negocioID uint) ([]model.UsuarioNegocio, error)
	FindByUsuario(usuarioID uint, search string) ([]model.UsuarioNegocio, error)
	UpdateRol(usuarioID, negocioID uint, rol model.RolNegocio) error
	Delete(usuarioID, negocioID uint) error
}

type usuarioNegocioRepository struct {
	db *gorm.DB
}

func NewUsuarioNegocioRepository(db *gorm.DB) UsuarioNegocioRepository {
	return &usuarioNegocioRepository{db: db}
}

func (r *usuarioNegocioRepository) Create(membresia *model.UsuarioNegocio) error {
	logger.Debug("Creating membresia in database", map[string]interface{}{
		"user_id":    membresia.UsuarioID,
		"negocio_id": membresia.NegocioID,
		"rol":        membresia.Rol,
	})

	if err := r.db.Create(membresia).Error; err != nil {
		logger.Error("Failed to create membresia in database", err, map[string]interface{}{
			"user_id":    membresia.UsuarioID,
			"negocio_id": membresia.NegocioID,
		})
		return err
	}
	return nil
}

func (r *usuarioNegocioRepository) Find(usuarioID, negocioID uint) (*model.UsuarioNegocio, error) {
	var membresia model.UsuarioNegocio
	err := r.db.Where("usuario_id = ? AND negocio_id = ?", usuarioID, negocioID).First(&membresia).Error
	if err != nil {
		return nil, err
	}
	return &membresia, nil
}

// FindByNegocio returns every member of a negocio with the usuario loaded
func (r *usuarioNegocioRepository) FindByNegocio(negocioID uint) ([]model.UsuarioNegocio, error) {
	var membresias []model.UsuarioNegocio
	err := r.db.Preload("Usuario").
		Where("negocio_id = ?", negocioID).
		Order("usuario_id asc").
		Find(&membresias).Error
	if err != nil {
		logger.Error("Failed to find members in database", err, map[string]interface{}{
			"negocio_id": negocioID,
		})
		return nil, err
	}
	return membresias, nil
}

// FindByUsuario returns every membresia of a usuario with the negocio
// loaded, optionally filtered by a case-insensitive substring of the
// negocio's nombre or CIF
func (r *usuarioNegocioRepository) FindByUsuario(usuarioID uint, search string) ([]model.UsuarioNegocio, error) {
	var membresias []model.UsuarioNegocio

	query := r.db.Preload("Negocio").
		Joins("JOIN negocios ON negocios.id = usuario_negocios.negocio_id").
		Where("usuario_negocios.usuario_id = ?", usuarioID)

	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(negocios.nombre) LIKE ? OR LOWER(negocios.cif) LIKE ?", pattern, pattern)
	}

	err := query.Order("usuario_negocios.negocio_id asc").Find(&membresias).Error
	if err != nil {
		logger.Error("Failed to find membresias in database", err, map[string]interface{}{
			"user_id": usuarioID,
		})
		return nil, err
	}
	return membresias, nil
}

func (r *usuarioNegocioRepository) UpdateRol(usuarioID, negocioID uint, rol model.RolNegocio) error {
	logger.Debug("Updating membresia rol in database", map[string]interface{}{
		"user_id":    usuarioID,
		"negocio_id": negocioID,
		"rol":        rol,
	})

	err := r.db.Model(&model.UsuarioNegocio{}).
		Where("usuario_id = ? AND negocio_id = ?", usuarioID, negocioID).
		Update("rol", rol).Error
	if err != nil {
		logger.Error("Failed to update membresia rol in database", err, map[string]interface{}{
			"user_id":    usuarioID,
			"negocio_id": negocioID,
		})
		return err
	}
	return nil
}

func (r *usuarioNegocioRepository) Delete(usuarioID, negocioID uint) error {
	logger.Debug("Deleting membresia from database", map[string]interface{}{
		"user_id":    usuarioID,
		"negocio_id": negocioID,
	})

	err := r.db.Where("usuario_id = ? AND negocio_id = ?", usuarioID, negocioID).
		Delete(&model.UsuarioNegocio{}).Error
	if err != nil {
		logger.Error("Failed to delete membresia from database", err, map[string]interface{}{
			"user_id":    usuarioID,
			"negocio_id": negocioID,
		})
		return err
	}
	return nil
}
