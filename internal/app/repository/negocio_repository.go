package repository

import (
	"github.com/minegocio/backend/internal/app/model"
	"github.com/minegocio/backend/pkg/logger"
	"gorm.io/gorm"
)

type NegocioRepository interface {
	Create(negocio *model.Negocio) error
	FindByID(id uint) (*model.Negocio, error)
	FindByCIF(cif string) (*model.Negocio, error)
	Update(negocio *model.Negocio) error
}

type negocioRepository struct {
	db *gorm.DB
}

func NewNegocioRepository(db *gorm.DB) NegocioRepository {
	return &negocioRepository{db: db}
}

func (r *negocioRepository) Create(negocio *model.Negocio) error {
	logger.Debug("Creating negocio in database", map[string]interface{}{
		"nombre": negocio.Nombre,
		"cif":    negocio.CIF,
	})

	if err := r.db.Create(negocio).Error; err != nil {
		logger.Error("Failed to create negocio in database", err, map[string]interface{}{
			"cif": negocio.CIF,
		})
		return err
	}
	return nil
}

func (r *negocioRepository) FindByID(id uint) (*model.Negocio, error) {
	var negocio model.Negocio
	err := r.db.First(&negocio, id).Error
	if err != nil {
		logger.Debug("Failed to find negocio by ID in database", map[string]interface{}{
			"negocio_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}
	return &negocio, nil
}

func (r *negocioRepository) FindByCIF(cif string) (*model.Negocio, error) {
	var negocio model.Negocio
	err := r.db.Where("cif = ?", cif).First(&negocio).Error
	if err != nil {
		return nil, err
	}
	return &negocio, nil
}

func (r *negocioRepository) Update(negocio *model.Negocio) error {
	logger.Debug("Updating negocio in database", map[string]interface{}{
		"negocio_id": negocio.ID,
	})

	if err := r.db.Save(negocio).Error; err != nil {
		logger.Error("Failed to update negocio in database", err, map[string]interface{}{
			"negocio_id": negocio.ID,
		})
		return err
	}
	return nil
}
