package errors

// Error code constants returned in the "error" field of every error response.
// Format: CATEGORY_SPECIFIC_DETAIL. The mobile client maps these to UI copy.

const (
	// ==================== Autenticación (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // Sesión requerida
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // Contraseña incorrecta
	AuthTokenMissing       = "AUTH_TOKEN_MISSING"       // Token no proporcionado
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // Token inválido o manipulado
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // Token caducado
	AuthCodeInvalid        = "AUTH_CODE_INVALID"        // Código de validación incorrecto
	AuthUserNotValidated   = "AUTH_USER_NOT_VALIDATED"  // Cuenta pendiente de validar

	// ==================== Autorización (AUTHZ_) ====================
	AuthzForbidden      = "AUTHZ_FORBIDDEN"       // Sin acceso al negocio
	AuthzNoPermission   = "AUTHZ_NO_PERMISSION"   // Rol insuficiente
	AuthzAdminProtected = "AUTHZ_ADMIN_PROTECTED" // Membresía admin intocable

	// ==================== Validación (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // Entrada incorrecta
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // ID no numérico
	ValidationRequired     = "VALIDATION_REQUIRED"      // Campo obligatorio ausente
	ValidationInvalidRol   = "VALIDATION_INVALID_ROL"   // Rol no asignable

	// ==================== Recursos (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // Recurso inexistente
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // Ya existe

	// ==================== Usuarios (USUARIO_) ====================
	UsuarioNotFound      = "USUARIO_NOT_FOUND"      // Usuario inexistente
	UsuarioUsernameTaken = "USUARIO_USERNAME_TAKEN" // Nombre de usuario repetido

	// ==================== Negocios (NEGOCIO_) ====================
	NegocioNotFound      = "NEGOCIO_NOT_FOUND"      // Negocio inexistente
	NegocioCIFExists     = "NEGOCIO_CIF_EXISTS"     // CIF repetido
	NegocioMemberExists  = "NEGOCIO_MEMBER_EXISTS"  // Membresía duplicada
	NegocioMemberMissing = "NEGOCIO_MEMBER_MISSING" // El usuario no tiene acceso

	// ==================== Errores internos (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // Error del servidor
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // Error de base de datos
)
