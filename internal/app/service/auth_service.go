package service

import (
	"errors"
	"strings"
	"time"

	"github.com/minegocio/backend/internal/app/model"
	"github.com/minegocio/backend/internal/app/repository"
	"github.com/minegocio/backend/pkg/logger"
	"github.com/minegocio/backend/pkg/mailer"
	"github.com/minegocio/backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken         = errors.New("nombre de usuario already exists")
	ErrUserNotFound          = errors.New("usuario not found")
	ErrInvalidCredentials    = errors.New("invalid password")
	ErrInvalidValidationCode = errors.New("invalid validation code")
)

// isDuplicateErr detects store-level uniqueness violations. The unique
// indexes are the authoritative guard against races; the application
// checks above them only exist for friendlier early errors.
func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

type RegisterInput struct {
	NombreUsuario  string
	Nombre         string
	DNI            string
	NumeroTelefono string
	Email          string
	Contrasena     string
	Consentimiento bool
}

type UpdateProfileInput struct {
	Nombre          string
	Email           string
	DNI             string
	NumeroTelefono  string
	Contrasena      string
	NuevaContrasena string
}

type AuthService interface {
	Register(input RegisterInput) (*model.Usuario, error)
	Login(nombreUsuario, contrasena string) (*model.Usuario, string, error)
	ValidateCode(userID uint, codigo string) (*model.Usuario, string, error)
	ResetPassword(nombreUsuario string) error
	GetUserByID(id uint) (*model.Usuario, error)
	UpdateProfile(userID uint, input UpdateProfileInput) (*model.Usuario, error)
	SearchUsers(term string) ([]model.Usuario, error)
}

type authService struct {
	usuarioRepo repository.UsuarioRepository
	mailer      mailer.Mailer
	jwtSecret   string
	tokenExpiry time.Duration
}

func NewAuthService(
	usuarioRepo repository.UsuarioRepository,
	m mailer.Mailer,
	jwtSecret string,
	tokenExpiry time.Duration,
) AuthService {
	return &authService{
		usuarioRepo: usuarioRepo,
		mailer:      m,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
	}
}

func (s *authService) Register(input RegisterInput) (*model.Usuario, error) {
	logger.Info("Attempting usuario registration", map[string]interface{}{
		"nombre_usuario": input.NombreUsuario,
	})

	// Fast path: friendly error before hitting the unique index
	existing, err := s.usuarioRepo.FindByNombreUsuario(input.NombreUsuario)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing usuario", err, map[string]interface{}{
			"nombre_usuario": input.NombreUsuario,
		})
		return nil, err
	}
	if existing != nil {
		logger.Warn("Registration failed: nombre_usuario already exists", map[string]interface{}{
			"nombre_usuario": input.NombreUsuario,
		})
		return nil, ErrUsernameTaken
	}

	hashedPassword, err := util.HashPassword(input.Contrasena)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"nombre_usuario": input.NombreUsuario,
		})
		return nil, err
	}

	codigo, err := util.GenerateValidationCode()
	if err != nil {
		logger.Error("Failed to generate validation code", err, nil)
		return nil, err
	}

	usuario := &model.Usuario{
		NombreUsuario:    input.NombreUsuario,
		Nombre:           input.Nombre,
		DNI:              input.DNI,
		Email:            input.Email,
		NumeroTelefono:   input.NumeroTelefono,
		PasswordHash:     hashedPassword,
		Consentimiento:   input.Consentimiento,
		Validado:         false,
		CodigoValidacion: &codigo,
	}

	if err := s.usuarioRepo.Create(usuario); err != nil {
		if isDuplicateErr(err) {
			return nil, ErrUsernameTaken
		}
		logger.Error("Failed to create usuario in database", err, map[string]interface{}{
			"nombre_usuario": input.NombreUsuario,
		})
		return nil, err
	}

	// Best effort: a lost email never fails the registration
	if err := s.mailer.SendValidationCode(usuario.Email, codigo); err != nil {
		logger.Error("Failed to send validation code email", err, map[string]interface{}{
			"user_id": usuario.ID,
		})
	}

	logger.Info("Usuario registered successfully", map[string]interface{}{
		"user_id":        usuario.ID,
		"nombre_usuario": usuario.NombreUsuario,
	})

	return usuario, nil
}

func (s *authService) Login(nombreUsuario, contrasena string) (*model.Usuario, string, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"nombre_usuario": nombreUsuario,
	})

	usuario, err := s.usuarioRepo.FindByNombreUsuario(nombreUsuario)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: usuario not found", map[string]interface{}{
				"nombre_usuario": nombreUsuario,
			})
			return nil, "", ErrUserNotFound
		}
		logger.Error("Failed to find usuario", err, map[string]interface{}{
			"nombre_usuario": nombreUsuario,
		})
		return nil, "", err
	}

	if !util.VerifyPassword(usuario.PasswordHash, contrasena) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"nombre_usuario": nombreUsuario,
			"user_id":        usuario.ID,
		})
		return nil, "", ErrInvalidCredentials
	}

	// A token is issued even for an unvalidated account; the client
	// routes those users to the code-validation screen
	token, err := util.GenerateToken(usuario.ID, usuario.NombreUsuario, s.jwtSecret, s.tokenExpiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": usuario.ID,
		})
		return nil, "", err
	}

	logger.Info("Usuario logged in successfully", map[string]interface{}{
		"user_id":        usuario.ID,
		"nombre_usuario": usuario.NombreUsuario,
		"validado":       usuario.Validado,
	})

	return usuario, token, nil
}

func (s *authService) ValidateCode(userID uint, codigo string) (*model.Usuario, string, error) {
	logger.Info("Validating registration code", map[string]interface{}{
		"user_id": userID,
	})

	usuario, err := s.usuarioRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		logger.Error("Failed to find usuario for code validation", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, "", err
	}

	if usuario.CodigoValidacion == nil || *usuario.CodigoValidacion != codigo {
		logger.Warn("Code validation failed: code mismatch", map[string]interface{}{
			"user_id": userID,
		})
		return nil, "", ErrInvalidValidationCode
	}

	usuario.Validado = true
	usuario.CodigoValidacion = nil

	if err := s.usuarioRepo.Update(usuario); err != nil {
		logger.Error("Failed to mark usuario as validated", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, "", err
	}

	token, err := util.GenerateToken(usuario.ID, usuario.NombreUsuario, s.jwtSecret, s.tokenExpiry)
	if err != nil {
		logger.Error("Failed to generate token after validation", err, map[string]interface{}{
			"user_id": usuario.ID,
		})
		return nil, "", err
	}

	logger.Info("Usuario validated successfully", map[string]interface{}{
		"user_id": usuario.ID,
	})

	return usuario, token, nil
}

func (s *authService) ResetPassword(nombreUsuario string) error {
	logger.Info("Processing password reset", map[string]interface{}{
		"nombre_usuario": nombreUsuario,
	})

	usuario, err := s.usuarioRepo.FindByNombreUsuario(nombreUsuario)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Password reset failed: usuario not found", map[string]interface{}{
				"nombre_usuario": nombreUsuario,
			})
			return ErrUserNotFound
		}
		logger.Error("Failed to find usuario for password reset", err, map[string]interface{}{
			"nombre_usuario": nombreUsuario,
		})
		return err
	}

	nuevaContrasena, err := util.GeneratePassword(util.GeneratedPasswordLength)
	if err != nil {
		logger.Error("Failed to generate new password", err, nil)
		return err
	}

	hashedPassword, err := util.HashPassword(nuevaContrasena)
	if err != nil {
		logger.Error("Failed to hash generated password", err, nil)
		return err
	}

	usuario.PasswordHash = hashedPassword
	if err := s.usuarioRepo.Update(usuario); err != nil {
		logger.Error("Failed to persist new password", err, map[string]interface{}{
			"user_id": usuario.ID,
		})
		return err
	}

	// Best effort: the reset already happened, a lost email is only logged
	if err := s.mailer.SendNewPassword(usuario.Email, nuevaContrasena); err != nil {
		logger.Error("Failed to send new password email", err, map[string]interface{}{
			"user_id": usuario.ID,
		})
	}

	logger.Info("Password reset completed", map[string]interface{}{
		"user_id": usuario.ID,
	})

	return nil
}

func (s *authService) GetUserByID(id uint) (*model.Usuario, error) {
	usuario, err := s.usuarioRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch usuario", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return usuario, nil
}

func (s *authService) UpdateProfile(userID uint, input UpdateProfileInput) (*model.Usuario, error) {
	logger.Info("Updating usuario profile", map[string]interface{}{
		"user_id": userID,
	})

	usuario, err := s.usuarioRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch usuario for profile update", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if input.Nombre != "" {
		usuario.Nombre = input.Nombre
	}
	if input.Email != "" {
		usuario.Email = input.Email
	}
	if input.DNI != "" {
		usuario.DNI = input.DNI
	}
	if input.NumeroTelefono != "" {
		usuario.NumeroTelefono = input.NumeroTelefono
	}

	// A password change requires proving knowledge of the current one
	if input.NuevaContrasena != "" {
		if !util.VerifyPassword(usuario.PasswordHash, input.Contrasena) {
			logger.Warn("Profile update failed: current password mismatch", map[string]interface{}{
				"user_id": userID,
			})
			return nil, ErrInvalidCredentials
		}
		hashedPassword, err := util.HashPassword(input.NuevaContrasena)
		if err != nil {
			logger.Error("Failed to hash new password", err, map[string]interface{}{
				"user_id": userID,
			})
			return nil, err
		}
		usuario.PasswordHash = hashedPassword
	}

	if err := s.usuarioRepo.Update(usuario); err != nil {
		logger.Error("Failed to update usuario profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Usuario profile updated successfully", map[string]interface{}{
		"user_id": usuario.ID,
	})

	return usuario, nil
}

func (s *authService) SearchUsers(term string) ([]model.Usuario, error) {
	usuarios, err := s.usuarioRepo.Search(term, 50)
	if err != nil {
		logger.Error("Failed to search usuarios", err, map[string]interface{}{
			"term": term,
		})
		return nil, err
	}
	return usuarios, nil
}
