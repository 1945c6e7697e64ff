package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo carries a parsed error code and user-facing message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError translates store-level errors into user-facing codes and
// messages. Constraint violations are the authoritative duplicate guard
// (application-level existence checks are only a fast path), so the
// postgres/sqlite errors they raise must map to the same conflict
// responses. Raw driver errors are never leaked to the client.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Error interno del servidor",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// Unique constraint violation (postgres 23505, sqlite UNIQUE)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	// Foreign key constraint violation (postgres 23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "El recurso referenciado no existe",
		}
	}

	// Not null constraint violation (postgres 23502)
	if strings.Contains(errStrLower, "not-null constraint") || strings.Contains(errStrLower, "not null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "Faltan campos obligatorios",
		}
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "Error de conexión. Inténtalo de nuevo más tarde",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: "Error interno del servidor",
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "nombre_usuario") {
		return ErrorInfo{
			Code:    UsuarioUsernameTaken,
			Message: "El nombre de usuario ya existe",
		}
	}
	if strings.Contains(errLower, "dni") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "Ya existe un usuario con este DNI",
		}
	}
	if strings.Contains(errLower, "email") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "Ya existe un usuario con este email",
		}
	}
	if strings.Contains(errLower, "cif") {
		return ErrorInfo{
			Code:    NegocioCIFExists,
			Message: "Ya existe un negocio con este CIF",
		}
	}
	// Composite PK on usuario_negocios: duplicate membership
	if strings.Contains(errLower, "usuario_negocios") {
		return ErrorInfo{
			Code:    NegocioMemberExists,
			Message: "El usuario ya tiene acceso a este negocio",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "El registro ya existe",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "negocio") {
		return "Negocio no encontrado"
	}
	if strings.Contains(contextLower, "usuario") || strings.Contains(contextLower, "user") {
		return "Usuario no encontrado"
	}
	if strings.Contains(contextLower, "member") || strings.Contains(contextLower, "acceso") {
		return "El usuario no tiene acceso a este negocio"
	}

	return "Recurso no encontrado"
}

// ParseAndRespond parses err and writes the matching response; the raw
// error stays server-side
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
