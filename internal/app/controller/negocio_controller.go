package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minegocio/backend/internal/app/model"
	"github.com/minegocio/backend/internal/app/service"
	apperrors "github.com/minegocio/backend/internal/errors"
	"github.com/minegocio/backend/internal/middleware"
)

type NegocioController struct {
	negocioService service.NegocioService
}

func NewNegocioController(negocioService service.NegocioService) *NegocioController {
	return &NegocioController{
		negocioService: negocioService,
	}
}

type CreateNegocioRequest struct {
	Nombre string `json:"nombre" binding:"required"`
	CIF    string `json:"CIF" binding:"required"`
}

type UpdateNegocioRequest struct {
	Nombre string `json:"nombre" binding:"required"`
}

type GrantAccessRequest struct {
	IDUsuario uint   `json:"id_usuario" binding:"required"`
	Rol       string `json:"rol" binding:"required"`
}

type ChangeRoleRequest struct {
	IDUsuario uint   `json:"id_usuario" binding:"required"`
	Rol       string `json:"rol" binding:"required"`
}

// respondNegocioError maps the negocio service sentinels onto HTTP responses.
// Every controller action funnels its unhandled errors through here.
func respondNegocioError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrNegocioNotFound):
		apperrors.NotFound(c, apperrors.NegocioNotFound, "Negocio no encontrado")
	case errors.Is(err, service.ErrUserNotFound):
		apperrors.NotFound(c, apperrors.UsuarioNotFound, "Usuario no encontrado")
	case errors.Is(err, service.ErrMembershipNotFound):
		apperrors.NotFound(c, apperrors.NegocioMemberMissing, "El usuario no tiene acceso a este negocio")
	case errors.Is(err, service.ErrNoMembership):
		apperrors.Forbidden(c, apperrors.AuthzNoPermission, "No tienes acceso a este negocio")
	case errors.Is(err, service.ErrInsufficientRole):
		apperrors.Forbidden(c, apperrors.AuthzNoPermission, "No tienes permisos para gestionar este negocio")
	case errors.Is(err, service.ErrAdminImmutable):
		apperrors.Forbidden(c, apperrors.AuthzAdminProtected, "No se puede modificar el acceso del administrador")
	case errors.Is(err, service.ErrCIFAlreadyExists):
		apperrors.BadRequest(c, apperrors.NegocioCIFExists, "Ya existe un negocio con este CIF")
	case errors.Is(err, service.ErrMembershipExists):
		apperrors.BadRequest(c, apperrors.NegocioMemberExists, "El usuario ya tiene acceso a este negocio")
	case errors.Is(err, service.ErrInvalidRole):
		apperrors.BadRequest(c, apperrors.ValidationInvalidRol, "Rol no válido")
	case errors.Is(err, service.ErrBlankFields):
		apperrors.BadRequest(c, apperrors.ValidationRequired, "El nombre y el CIF son obligatorios")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// CreateNegocio registers a new negocio owned by the caller
// POST /api/v1/negocios
func (ctrl *NegocioController) CreateNegocio(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateNegocioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid negocio creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "El nombre y el CIF son obligatorios")
		return
	}

	callerID, _ := middleware.GetUserID(c)

	negocio, err := ctrl.negocioService.CreateNegocio(callerID, req.Nombre, req.CIF)
	if err != nil {
		respondNegocioError(c, err, "create negocio")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Negocio creado correctamente",
		"negocio": negocio,
	})
}

// ListNegocios lists the negocios the caller can access, with the rol
// held in each one
// GET /api/v1/negocios?search=
func (ctrl *NegocioController) ListNegocios(c *gin.Context) {
	callerID, _ := middleware.GetUserID(c)

	lista, err := ctrl.negocioService.ListNegocios(callerID, c.Query("search"))
	if err != nil {
		respondNegocioError(c, err, "list negocios")
		return
	}

	negocios := make([]gin.H, 0, len(lista))
	for _, item := range lista {
		negocios = append(negocios, gin.H{
			"id":     item.Negocio.ID,
			"nombre": item.Negocio.Nombre,
			"CIF":    item.Negocio.CIF,
			"rol":    item.Rol,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"negocios": negocios,
	})
}

// GetNegocio returns one negocio with the caller's rol in it
// GET /api/v1/negocios/:id
func (ctrl *NegocioController) GetNegocio(c *gin.Context) {
	negocioID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	callerID, _ := middleware.GetUserID(c)

	resultado, err := ctrl.negocioService.GetNegocio(callerID, negocioID)
	if err != nil {
		respondNegocioError(c, err, "get negocio")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"negocio": resultado.Negocio,
		"rol":     resultado.Rol,
	})
}

// UpdateNegocio renames a negocio
// PUT /api/v1/negocios/:id
func (ctrl *NegocioController) UpdateNegocio(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	negocioID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateNegocioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid negocio update request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "El nombre es obligatorio")
		return
	}

	callerID, _ := middleware.GetUserID(c)

	negocio, err := ctrl.negocioService.UpdateNombre(callerID, negocioID, req.Nombre)
	if err != nil {
		respondNegocioError(c, err, "update negocio")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Negocio actualizado correctamente",
		"negocio": negocio,
	})
}

// DeleteNegocio removes a negocio and all its memberships
// DELETE /api/v1/negocios/:id
func (ctrl *NegocioController) DeleteNegocio(c *gin.Context) {
	negocioID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	callerID, _ := middleware.GetUserID(c)

	if err := ctrl.negocioService.DeleteNegocio(callerID, negocioID); err != nil {
		respondNegocioError(c, err, "delete negocio")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Negocio eliminado correctamente",
	})
}

// ListMembers lists the usuarios with access to a negocio
// GET /api/v1/negocios/users/:id
func (ctrl *NegocioController) ListMembers(c *gin.Context) {
	negocioID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	callerID, _ := middleware.GetUserID(c)

	miembros, err := ctrl.negocioService.ListMembers(callerID, negocioID)
	if err != nil {
		respondNegocioError(c, err, "list negocio members")
		return
	}

	usuarios := make([]gin.H, 0, len(miembros))
	for _, m := range miembros {
		usuarios = append(usuarios, gin.H{
			"id_usuario":     m.UsuarioID,
			"nombre_usuario": m.Usuario.NombreUsuario,
			"nombre":         m.Usuario.Nombre,
			"rol":            m.Rol,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"usuarios": usuarios,
	})
}

// GrantAccess gives a usuario a rol in a negocio
// POST /api/v1/negocios/users/:id
func (ctrl *NegocioController) GrantAccess(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	negocioID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req GrantAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid access grant request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "El usuario y el rol son obligatorios")
		return
	}

	callerID, _ := middleware.GetUserID(c)

	membresia, err := ctrl.negocioService.GrantAccess(callerID, negocioID, req.IDUsuario, model.RolNegocio(req.Rol))
	if err != nil {
		respondNegocioError(c, err, "grant negocio access")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Acceso concedido correctamente",
		"usuario": gin.H{
			"id_usuario":     membresia.UsuarioID,
			"nombre_usuario": membresia.Usuario.NombreUsuario,
			"nombre":         membresia.Usuario.Nombre,
			"rol":            membresia.Rol,
		},
	})
}

// ChangeRole updates the rol a usuario holds in a negocio
// PUT /api/v1/negocios/users/:id
func (ctrl *NegocioController) ChangeRole(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	negocioID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid role change request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "El usuario y el rol son obligatorios")
		return
	}

	callerID, _ := middleware.GetUserID(c)

	membresia, err := ctrl.negocioService.ChangeRole(callerID, negocioID, req.IDUsuario, model.RolNegocio(req.Rol))
	if err != nil {
		respondNegocioError(c, err, "change negocio role")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Rol actualizado correctamente",
		"usuario": gin.H{
			"id_usuario": membresia.UsuarioID,
			"rol":        membresia.Rol,
		},
	})
}

// RevokeAccess removes a usuario's membership in a negocio
// DELETE /api/v1/negocios/users/:id/:id_usuario
func (ctrl *NegocioController) RevokeAccess(c *gin.Context) {
	negocioID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "id_usuario")
	if !ok {
		return
	}
	callerID, _ := middleware.GetUserID(c)

	if err := ctrl.negocioService.RevokeAccess(callerID, negocioID, targetID); err != nil {
		respondNegocioError(c, err, "revoke negocio access")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Acceso revocado correctamente",
	})
}
