package service

import (
	"errors"
	"strings"

	"github.com/minegocio/backend/internal/app/model"
	"github.com/minegocio/backend/internal/app/repository"
	"github.com/minegocio/backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrNegocioNotFound    = errors.New("negocio not found")
	ErrCIFAlreadyExists   = errors.New("cif already registered")
	ErrBlankFields        = errors.New("nombre and cif must not be blank")
	ErrNoMembership       = errors.New("usuario has no access to this negocio")
	ErrInsufficientRole   = errors.New("rol cannot manage this negocio")
	ErrInvalidRole        = errors.New("rol is not assignable")
	ErrMembershipExists   = errors.New("usuario already has access to this negocio")
	ErrMembershipNotFound = errors.New("usuario has no membership in this negocio")
	ErrAdminImmutable     = errors.New("admin membership cannot be modified")
)

// NegocioConRol pairs a negocio with the rol the querying usuario holds in it.
type NegocioConRol struct {
	Negocio model.Negocio
	Rol     model.RolNegocio
}

type NegocioService interface {
	CreateNegocio(callerID uint, nombre, cif string) (*model.Negocio, error)
	ListNegocios(callerID uint, search string) ([]NegocioConRol, error)
	GetNegocio(callerID, negocioID uint) (*NegocioConRol, error)
	UpdateNombre(callerID, negocioID uint, nombre string) (*model.Negocio, error)
	DeleteNegocio(callerID, negocioID uint) error
	ListMembers(callerID, negocioID uint) ([]model.UsuarioNegocio, error)
	GrantAccess(callerID, negocioID, targetID uint, rol model.RolNegocio) (*model.UsuarioNegocio, error)
	ChangeRole(callerID, negocioID, targetID uint, rol model.RolNegocio) (*model.UsuarioNegocio, error)
	RevokeAccess(callerID, negocioID, targetID uint) error
}

type negocioService struct {
	negocioRepo   repository.NegocioRepository
	membresiaRepo repository.UsuarioNegocioRepository
	usuarioRepo   repository.UsuarioRepository
	adminUserID   uint
	db            *gorm.DB
}

func NewNegocioService(
	negocioRepo repository.NegocioRepository,
	membresiaRepo repository.UsuarioNegocioRepository,
	usuarioRepo repository.UsuarioRepository,
	adminUserID uint,
	db *gorm.DB,
) NegocioService {
	return &negocioService{
		negocioRepo:   negocioRepo,
		membresiaRepo: membresiaRepo,
		usuarioRepo:   usuarioRepo,
		adminUserID:   adminUserID,
		db:            db,
	}
}

// gestorMembership loads the caller's membership in the negocio and checks
// it carries a management-capable rol.
func (s *negocioService) gestorMembership(callerID, negocioID uint) (*model.UsuarioNegocio, error) {
	membresia, err := s.membresiaRepo.Find(callerID, negocioID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoMembership
		}
		logger.Error("Failed to load caller membership", err, map[string]interface{}{
			"user_id":    callerID,
			"negocio_id": negocioID,
		})
		return nil, err
	}
	if !membresia.Rol.PuedeGestionar() {
		return nil, ErrInsufficientRole
	}
	return membresia, nil
}

func (s *negocioService) CreateNegocio(callerID uint, nombre, cif string) (*model.Negocio, error) {
	nombre = strings.TrimSpace(nombre)
	cif = strings.TrimSpace(cif)
	if nombre == "" || cif == "" {
		return nil, ErrBlankFields
	}

	logger.Info("Creating negocio", map[string]interface{}{
		"user_id": callerID,
		"cif":     cif,
	})

	// Fast path: friendly error before the unique index on cif fires
	existing, err := s.negocioRepo.FindByCIF(cif)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing cif", err, map[string]interface{}{
			"cif": cif,
		})
		return nil, err
	}
	if existing != nil {
		logger.Warn("Negocio creation failed: cif already exists", map[string]interface{}{
			"cif": cif,
		})
		return nil, ErrCIFAlreadyExists
	}

	negocio := &model.Negocio{
		Nombre: nombre,
		CIF:    cif,
	}

	// The negocio and its initial memberships must land together
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	if err := tx.Create(negocio).Error; err != nil {
		tx.Rollback()
		if isDuplicateErr(err) {
			return nil, ErrCIFAlreadyExists
		}
		logger.Error("Failed to create negocio", err, map[string]interface{}{
			"cif": cif,
		})
		return nil, err
	}

	// The creator is always the jefe; the platform admin is enrolled
	// alongside unless it is the creator itself
	membresias := []model.UsuarioNegocio{
		{UsuarioID: callerID, NegocioID: negocio.ID, Rol: model.RolJefe},
	}
	if callerID != s.adminUserID {
		membresias = append(membresias, model.UsuarioNegocio{
			UsuarioID: s.adminUserID,
			NegocioID: negocio.ID,
			Rol:       model.RolAdmin,
		})
	}
	if err := tx.Create(&membresias).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create initial memberships", err, map[string]interface{}{
			"negocio_id": negocio.ID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit negocio creation", err, map[string]interface{}{
			"cif": cif,
		})
		return nil, err
	}

	logger.Info("Negocio created successfully", map[string]interface{}{
		"negocio_id": negocio.ID,
		"user_id":    callerID,
	})

	return negocio, nil
}

func (s *negocioService) ListNegocios(callerID uint, search string) ([]NegocioConRol, error) {
	membresias, err := s.membresiaRepo.FindByUsuario(callerID, search)
	if err != nil {
		logger.Error("Failed to list negocios for usuario", err, map[string]interface{}{
			"user_id": callerID,
		})
		return nil, err
	}

	resultado := make([]NegocioConRol, 0, len(membresias))
	for _, m := range membresias {
		resultado = append(resultado, NegocioConRol{
			Negocio: m.Negocio,
			Rol:     m.Rol,
		})
	}
	return resultado, nil
}

func (s *negocioService) GetNegocio(callerID, negocioID uint) (*NegocioConRol, error) {
	negocio, err := s.negocioRepo.FindByID(negocioID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNegocioNotFound
		}
		logger.Error("Failed to fetch negocio", err, map[string]interface{}{
			"negocio_id": negocioID,
		})
		return nil, err
	}

	membresia, err := s.membresiaRepo.Find(callerID, negocioID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoMembership
		}
		logger.Error("Failed to load caller membership", err, map[string]interface{}{
			"user_id":    callerID,
			"negocio_id": negocioID,
		})
		return nil, err
	}

	return &NegocioConRol{Negocio: *negocio, Rol: membresia.Rol}, nil
}

func (s *negocioService) UpdateNombre(callerID, negocioID uint, nombre string) (*model.Negocio, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return nil, ErrBlankFields
	}

	negocio, err := s.negocioRepo.FindByID(negocioID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNegocioNotFound
		}
		logger.Error("Failed to fetch negocio for rename", err, map[string]interface{}{
			"negocio_id": negocioID,
		})
		return nil, err
	}

	if _, err := s.gestorMembership(callerID, negocioID); err != nil {
		return nil, err
	}

	negocio.Nombre = nombre
	if err := s.negocioRepo.Update(negocio); err != nil {
		logger.Error("Failed to update negocio nombre", err, map[string]interface{}{
			"negocio_id": negocioID,
		})
		return nil, err
	}

	logger.Info("Negocio renamed", map[string]interface{}{
		"negocio_id": negocioID,
		"user_id":    callerID,
	})

	return negocio, nil
}

func (s *negocioService) DeleteNegocio(callerID, negocioID uint) error {
	logger.Info("Deleting negocio", map[string]interface{}{
		"negocio_id": negocioID,
		"user_id":    callerID,
	})

	if _, err := s.negocioRepo.FindByID(negocioID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNegocioNotFound
		}
		logger.Error("Failed to fetch negocio for deletion", err, map[string]interface{}{
			"negocio_id": negocioID,
		})
		return err
	}

	if _, err := s.gestorMembership(callerID, negocioID); err != nil {
		return err
	}

	// Memberships and the negocio row go away together
	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Where("negocio_id = ?", negocioID).Delete(&model.UsuarioNegocio{}).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to delete negocio memberships", err, map[string]interface{}{
			"negocio_id": negocioID,
		})
		return err
	}

	if err := tx.Delete(&model.Negocio{}, negocioID).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to delete negocio", err, map[string]interface{}{
			"negocio_id": negocioID,
		})
		return err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit negocio deletion", err, map[string]interface{}{
			"negocio_id": negocioID,
		})
		return err
	}

	logger.Info("Negocio deleted successfully", map[string]interface{}{
		"negocio_id": negocioID,
	})

	return nil
}

func (s *negocioService) ListMembers(callerID, negocioID uint) ([]model.UsuarioNegocio, error) {
	if _, err := s.negocioRepo.FindByID(negocioID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNegocioNotFound
		}
		return nil, err
	}

	if _, err := s.gestorMembership(callerID, negocioID); err != nil {
		return nil, err
	}

	membresias, err := s.membresiaRepo.FindByNegocio(negocioID)
	if err != nil {
		logger.Error("Failed to list negocio members", err, map[string]interface{}{
			"negocio_id": negocioID,
		})
		return nil, err
	}
	return membresias, nil
}

func (s *negocioService) GrantAccess(callerID, negocioID, targetID uint, rol model.RolNegocio) (*model.UsuarioNegocio, error) {
	if !rol.Asignable() {
		return nil, ErrInvalidRole
	}

	if _, err := s.negocioRepo.FindByID(negocioID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNegocioNotFound
		}
		return nil, err
	}

	if _, err := s.gestorMembership(callerID, negocioID); err != nil {
		return nil, err
	}

	target, err := s.usuarioRepo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch target usuario", err, map[string]interface{}{
			"user_id": targetID,
		})
		return nil, err
	}

	// Fast path: the composite primary key is the authoritative guard
	if _, err := s.membresiaRepo.Find(targetID, negocioID); err == nil {
		return nil, ErrMembershipExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	membresia := &model.UsuarioNegocio{
		UsuarioID: targetID,
		NegocioID: negocioID,
		Rol:       rol,
	}
	if err := s.membresiaRepo.Create(membresia); err != nil {
		if isDuplicateErr(err) {
			return nil, ErrMembershipExists
		}
		logger.Error("Failed to grant negocio access", err, map[string]interface{}{
			"negocio_id": negocioID,
			"user_id":    targetID,
		})
		return nil, err
	}

	membresia.Usuario = *target

	logger.Info("Negocio access granted", map[string]interface{}{
		"negocio_id": negocioID,
		"user_id":    targetID,
		"rol":        string(rol),
		"granted_by": callerID,
	})

	return membresia, nil
}

func (s *negocioService) ChangeRole(callerID, negocioID, targetID uint, rol model.RolNegocio) (*model.UsuarioNegocio, error) {
	if !rol.Asignable() {
		return nil, ErrInvalidRole
	}

	if _, err := s.negocioRepo.FindByID(negocioID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNegocioNotFound
		}
		return nil, err
	}

	if _, err := s.gestorMembership(callerID, negocioID); err != nil {
		return nil, err
	}

	membresia, err := s.membresiaRepo.Find(targetID, negocioID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		logger.Error("Failed to load target membership", err, map[string]interface{}{
			"negocio_id": negocioID,
			"user_id":    targetID,
		})
		return nil, err
	}

	if membresia.Rol == model.RolAdmin {
		logger.Warn("Refused to change rol of admin membership", map[string]interface{}{
			"negocio_id": negocioID,
			"user_id":    targetID,
			"caller_id":  callerID,
		})
		return nil, ErrAdminImmutable
	}

	if err := s.membresiaRepo.UpdateRol(targetID, negocioID, rol); err != nil {
		logger.Error("Failed to update membership rol", err, map[string]interface{}{
			"negocio_id": negocioID,
			"user_id":    targetID,
		})
		return nil, err
	}
	membresia.Rol = rol

	logger.Info("Membership rol updated", map[string]interface{}{
		"negocio_id": negocioID,
		"user_id":    targetID,
		"rol":        string(rol),
		"changed_by": callerID,
	})

	return membresia, nil
}

func (s *negocioService) RevokeAccess(callerID, negocioID, targetID uint) error {
	if _, err := s.negocioRepo.FindByID(negocioID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNegocioNotFound
		}
		return err
	}

	if _, err := s.gestorMembership(callerID, negocioID); err != nil {
		return err
	}

	membresia, err := s.membresiaRepo.Find(targetID, negocioID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMembershipNotFound
		}
		logger.Error("Failed to load target membership", err, map[string]interface{}{
			"negocio_id": negocioID,
			"user_id":    targetID,
		})
		return err
	}

	if membresia.Rol == model.RolAdmin {
		logger.Warn("Refused to revoke admin membership", map[string]interface{}{
			"negocio_id": negocioID,
			"user_id":    targetID,
			"caller_id":  callerID,
		})
		return ErrAdminImmutable
	}

	if err := s.membresiaRepo.Delete(targetID, negocioID); err != nil {
		logger.Error("Failed to revoke negocio access", err, map[string]interface{}{
			"negocio_id": negocioID,
			"user_id":    targetID,
		})
		return err
	}

	logger.Info("Negocio access revoked", map[string]interface{}{
		"negocio_id": negocioID,
		"user_id":    targetID,
		"revoked_by": callerID,
	})

	return nil
}
