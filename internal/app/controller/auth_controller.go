package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minegocio/backend/internal/app/service"
	apperrors "github.com/minegocio/backend/internal/errors"
	"github.com/minegocio/backend/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type RegisterRequest struct {
	NombreUsuario  string `json:"nombre_usuario" binding:"required"`
	Nombre         string `json:"nombre" binding:"required"`
	DNI            string `json:"dni" binding:"required"`
	NumeroTelefono string `json:"numero_telefono"`
	Email          string `json:"email" binding:"required"`
	Contrasena     string `json:"contrasena" binding:"required"`
	Consentimiento bool   `json:"consentimiento"`
}

type LoginRequest struct {
	NombreUsuario string `json:"nombre_usuario" binding:"required"`
	Contrasena    string `json:"contrasena" binding:"required"`
}

type ValidateCodeRequest struct {
	IDUsuario        uint   `json:"id_usuario" binding:"required"`
	CodigoValidacion string `json:"codigo_validacion" binding:"required"`
}

type ResetPasswordRequest struct {
	NombreUsuario string `json:"nombre_usuario" binding:"required"`
}

// Register handles account creation
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Datos de registro inválidos")
		return
	}

	log.Debug("Processing registration", map[string]interface{}{
		"nombre_usuario": req.NombreUsuario,
	})

	usuario, err := ctrl.authService.Register(service.RegisterInput{
		NombreUsuario:  req.NombreUsuario,
		Nombre:         req.Nombre,
		DNI:            req.DNI,
		NumeroTelefono: req.NumeroTelefono,
		Email:          req.Email,
		Contrasena:     req.Contrasena,
		Consentimiento: req.Consentimiento,
	})
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			apperrors.BadRequest(c, apperrors.UsuarioUsernameTaken, "El nombre de usuario ya existe")
			return
		}
		log.Error("Registration failed", err, map[string]interface{}{
			"nombre_usuario": req.NombreUsuario,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "register usuario")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Usuario registrado correctamente. Se ha enviado un código de validación a tu correo",
		"userId":  usuario.ID,
	})
}

// Login authenticates a usuario and issues a session token
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Datos de acceso inválidos")
		return
	}

	usuario, token, err := ctrl.authService.Login(req.NombreUsuario, req.Contrasena)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UsuarioNotFound, "Usuario no encontrado")
			return
		}
		if errors.Is(err, service.ErrInvalidCredentials) {
			apperrors.BadRequest(c, apperrors.AuthInvalidCredentials, "Contraseña incorrecta")
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"nombre_usuario": req.NombreUsuario,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "login usuario")
		return
	}

	response := gin.H{
		"id_usuario": usuario.ID,
		"token":      token,
	}
	// Unvalidated accounts log in, but the client must route them to
	// the code-validation screen
	if !usuario.Validado {
		response["message"] = "UsuarioNoValidado"
	}

	c.JSON(http.StatusOK, response)
}

// ValidateCode confirms a registration with the emailed code
// POST /api/v1/auth/validate-code
func (ctrl *AuthController) ValidateCode(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ValidateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid code validation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Datos de validación inválidos")
		return
	}

	usuario, token, err := ctrl.authService.ValidateCode(req.IDUsuario, req.CodigoValidacion)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UsuarioNotFound, "Usuario no encontrado")
			return
		}
		if errors.Is(err, service.ErrInvalidValidationCode) {
			apperrors.BadRequest(c, apperrors.AuthCodeInvalid, "Código de validación incorrecto")
			return
		}
		log.Error("Code validation failed", err, map[string]interface{}{
			"user_id": req.IDUsuario,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "validate code")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Usuario validado correctamente",
		"id_usuario": usuario.ID,
		"token":      token,
	})
}

// ResetPassword generates a new password and emails it to the usuario
// POST /api/v1/auth/reset-password
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid password reset request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Datos de solicitud inválidos")
		return
	}

	if err := ctrl.authService.ResetPassword(req.NombreUsuario); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UsuarioNotFound, "Usuario no encontrado")
			return
		}
		log.Error("Password reset failed", err, map[string]interface{}{
			"nombre_usuario": req.NombreUsuario,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "reset password")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Se ha enviado una nueva contraseña a tu correo",
	})
}
