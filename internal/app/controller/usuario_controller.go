package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/minegocio/backend/internal/app/service"
	apperrors "github.com/minegocio/backend/internal/errors"
	"github.com/minegocio/backend/internal/middleware"
)

type UsuarioController struct {
	authService service.AuthService
}

func NewUsuarioController(authService service.AuthService) *UsuarioController {
	return &UsuarioController{
		authService: authService,
	}
}

type UpdateProfileRequest struct {
	Nombre          string `json:"nombre"`
	Email           string `json:"email" binding:"omitempty,email"`
	DNI             string `json:"dni"`
	NumeroTelefono  string `json:"numero_telefono"`
	Contrasena      string `json:"contrasena"`
	NuevaContrasena string `json:"nuevacontrasena" binding:"omitempty,min=6"`
}

// parseIDParam reads a numeric path parameter
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Identificador inválido")
		return 0, false
	}
	return uint(id), true
}

// GetProfile returns the profile of the authenticated usuario.
// Reading someone else's profile is forbidden.
// GET /api/v1/users/user/:id_usuario
func (ctrl *UsuarioController) GetProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	targetID, ok := parseIDParam(c, "id_usuario")
	if !ok {
		return
	}

	callerID, _ := middleware.GetUserID(c)
	if targetID != callerID {
		log.Warn("Profile access denied", map[string]interface{}{
			"caller_id": callerID,
			"target_id": targetID,
		})
		apperrors.Forbidden(c, apperrors.AuthzForbidden, "")
		return
	}

	usuario, err := ctrl.authService.GetUserByID(targetID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UsuarioNotFound, "Usuario no encontrado")
			return
		}
		log.Error("Failed to fetch profile", err, map[string]interface{}{
			"user_id": targetID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"usuario": usuario,
	})
}

// UpdateProfile updates the authenticated usuario's own profile
// PUT /api/v1/users/user/:id_usuario
func (ctrl *UsuarioController) UpdateProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	targetID, ok := parseIDParam(c, "id_usuario")
	if !ok {
		return
	}

	callerID, _ := middleware.GetUserID(c)
	if targetID != callerID {
		log.Warn("Profile update denied", map[string]interface{}{
			"caller_id": callerID,
			"target_id": targetID,
		})
		apperrors.Forbidden(c, apperrors.AuthzForbidden, "")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid profile update request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Datos de perfil inválidos")
		return
	}

	usuario, err := ctrl.authService.UpdateProfile(targetID, service.UpdateProfileInput{
		Nombre:          req.Nombre,
		Email:           req.Email,
		DNI:             req.DNI,
		NumeroTelefono:  req.NumeroTelefono,
		Contrasena:      req.Contrasena,
		NuevaContrasena: req.NuevaContrasena,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UsuarioNotFound, "Usuario no encontrado")
			return
		}
		if errors.Is(err, service.ErrInvalidCredentials) {
			apperrors.BadRequest(c, apperrors.AuthInvalidCredentials, "Contraseña incorrecta")
			return
		}
		log.Error("Failed to update profile", err, map[string]interface{}{
			"user_id": targetID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Perfil actualizado correctamente",
		"usuario": usuario,
	})
}

// SearchUsers returns a summary list of usuarios matching the search term
// GET /api/v1/users?search=
func (ctrl *UsuarioController) SearchUsers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	term := c.Query("search")

	usuarios, err := ctrl.authService.SearchUsers(term)
	if err != nil {
		log.Error("Usuario search failed", err, map[string]interface{}{
			"term": term,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "search usuarios")
		return
	}

	resultado := make([]gin.H, 0, len(usuarios))
	for _, u := range usuarios {
		resultado = append(resultado, gin.H{
			"id_usuario":     u.ID,
			"nombre_usuario": u.NombreUsuario,
			"nombre":         u.Nombre,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"usuarios": resultado,
	})
}
