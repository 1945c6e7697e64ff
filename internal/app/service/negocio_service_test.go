package service

import (
	"fmt"
	"testing"

	"github.com/minegocio/backend/internal/app/model"
	"github.com/minegocio/backend/internal/app/repository"
	"github.com/minegocio/backend/internal/db"
	"github.com/minegocio/backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testAdminID uint = 1

type negocioFixture struct {
	svc           NegocioService
	membresiaRepo repository.UsuarioNegocioRepository
	db            *gorm.DB
	admin         *model.Usuario
	dniSeq        int
}

func setupNegocioService(t *testing.T) *negocioFixture {
	database, err := db.SetupTestDB(t)
	require.NoError(t, err)

	negocioRepo := repository.NewNegocioRepository(database)
	membresiaRepo := repository.NewUsuarioNegocioRepository(database)
	usuarioRepo := repository.NewUsuarioRepository(database)
	svc := NewNegocioService(negocioRepo, membresiaRepo, usuarioRepo, testAdminID, database)

	fx := &negocioFixture{
		svc:           svc,
		membresiaRepo: membresiaRepo,
		db:            database,
	}
	fx.admin = fx.createUsuario(t, "admin", "00000000X", "admin@minegocio.es")
	require.Equal(t, testAdminID, fx.admin.ID)
	return fx
}

func (fx *negocioFixture) createUsuario(t *testing.T, nombreUsuario, dni, email string) *model.Usuario {
	t.Helper()
	hash, err := util.HashPassword("secreta123")
	require.NoError(t, err)
	usuario := &model.Usuario{
		NombreUsuario:  nombreUsuario,
		Nombre:         "Usuario " + nombreUsuario,
		DNI:            dni,
		Email:          email,
		NumeroTelefono: "600000000",
		PasswordHash:   hash,
		Consentimiento: true,
		Validado:       true,
	}
	require.NoError(t, fx.db.Create(usuario).Error)
	return usuario
}

// createMember registers a usuario and grants it access to the negocio
// directly through the repository, bypassing the service's permission gate.
func (fx *negocioFixture) createMember(t *testing.T, negocioID uint, nombreUsuario string, rol model.RolNegocio) *model.Usuario {
	t.Helper()
	fx.dniSeq++
	usuario := fx.createUsuario(t, nombreUsuario,
		fmt.Sprintf("9%07dZ", fx.dniSeq), nombreUsuario+"@example.com")
	require.NoError(t, fx.membresiaRepo.Create(&model.UsuarioNegocio{
		UsuarioID: usuario.ID,
		NegocioID: negocioID,
		Rol:       rol,
	}))
	return usuario
}

func TestNegocioService_CreateNegocio(t *testing.T) {
	fx := setupNegocioService(t)
	jefe := fx.createUsuario(t, "jefa", "11111111A", "jefa@example.com")

	negocio, err := fx.svc.CreateNegocio(jefe.ID, "Panadería Sol", "B12345678")
	require.NoError(t, err)
	assert.NotZero(t, negocio.ID)

	// Creation seeds exactly two memberships: admin and the creator as jefe
	adminM, err := fx.membresiaRepo.Find(testAdminID, negocio.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RolAdmin, adminM.Rol)

	jefeM, err := fx.membresiaRepo.Find(jefe.ID, negocio.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RolJefe, jefeM.Rol)

	miembros, err := fx.membresiaRepo.FindByNegocio(negocio.ID)
	require.NoError(t, err)
	assert.Len(t, miembros, 2)
}

func TestNegocioService_CreateNegocio_AdminCreator(t *testing.T) {
	fx := setupNegocioService(t)

	// When the admin itself creates the negocio only one row is written,
	// and the admin holds it as jefe like any other creator
	negocio, err := fx.svc.CreateNegocio(testAdminID, "Gestoría Central", "B00000001")
	require.NoError(t, err)

	miembros, err := fx.membresiaRepo.FindByNegocio(negocio.ID)
	require.NoError(t, err)
	require.Len(t, miembros, 1)
	assert.Equal(t, testAdminID, miembros[0].UsuarioID)
	assert.Equal(t, model.RolJefe, miembros[0].Rol)

	// A jefe row is not admin-protected, so the account can later be
	// rotated out of its own negocio
	_, err = fx.svc.ChangeRole(testAdminID, negocio.ID, testAdminID, model.RolTrabajador)
	assert.NoError(t, err)
}

func TestNegocioService_CreateNegocio_Validation(t *testing.T) {
	fx := setupNegocioService(t)
	jefe := fx.createUsuario(t, "jefa", "11111111A", "jefa@example.com")

	_, err := fx.svc.CreateNegocio(jefe.ID, "  ", "B12345678")
	assert.ErrorIs(t, err, ErrBlankFields)

	_, err = fx.svc.CreateNegocio(jefe.ID, "Panadería Sol", "")
	assert.ErrorIs(t, err, ErrBlankFields)

	_, err = fx.svc.CreateNegocio(jefe.ID, "Panadería Sol", "B12345678")
	require.NoError(t, err)

	_, err = fx.svc.CreateNegocio(jefe.ID, "Otra Panadería", "B12345678")
	assert.ErrorIs(t, err, ErrCIFAlreadyExists)
}

func TestNegocioService_ListNegocios(t *testing.T) {
	fx := setupNegocioService(t)
	jefe := fx.createUsuario(t, "jefa", "11111111A", "jefa@example.com")
	otro := fx.createUsuario(t, "otro", "22222222B", "otro@example.com")

	_, err := fx.svc.CreateNegocio(jefe.ID, "Panadería Sol", "B12345678")
	require.NoError(t, err)
	_, err = fx.svc.CreateNegocio(jefe.ID, "Ferretería Luna", "B87654321")
	require.NoError(t, err)

	t.Run("lists only accessible negocios with the caller rol", func(t *testing.T) {
		lista, err := fx.svc.ListNegocios(jefe.ID, "")
		require.NoError(t, err)
		require.Len(t, lista, 2)
		for _, item := range lista {
			assert.Equal(t, model.RolJefe, item.Rol)
		}
	})

	t.Run("admin sees every negocio", func(t *testing.T) {
		lista, err := fx.svc.ListNegocios(testAdminID, "")
		require.NoError(t, err)
		assert.Len(t, lista, 2)
	})

	t.Run("usuario without memberships gets an empty list", func(t *testing.T) {
		lista, err := fx.svc.ListNegocios(otro.ID, "")
		require.NoError(t, err)
		assert.Empty(t, lista)
	})

	t.Run("search filters by nombre or cif", func(t *testing.T) {
		lista, err := fx.svc.ListNegocios(jefe.ID, "ferre")
		require.NoError(t, err)
		require.Len(t, lista, 1)
		assert.Equal(t, "Ferretería Luna", lista[0].Negocio.Nombre)

		lista, err = fx.svc.ListNegocios(jefe.ID, "B12345678")
		require.NoError(t, err)
		require.Len(t, lista, 1)
		assert.Equal(t, "Panadería Sol", lista[0].Negocio.Nombre)
	})
}

func TestNegocioService_GetNegocio(t *testing.T) {
	fx := setupNegocioService(t)
	jefe := fx.createUsuario(t, "jefa", "11111111A", "jefa@example.com")
	otro := fx.createUsuario(t, "otro", "22222222B", "otro@example.com")

	negocio, err := fx.svc.CreateNegocio(jefe.ID, "Panadería Sol", "B12345678")
	require.NoError(t, err)

	t.Run("member can read it", func(t *testing.T) {
		resultado, err := fx.svc.GetNegocio(jefe.ID, negocio.ID)
		require.NoError(t, err)
		assert.Equal(t, negocio.ID, resultado.Negocio.ID)
		assert.Equal(t, model.RolJefe, resultado.Rol)
	})

	t.Run("non member is rejected", func(t *testing.T) {
		_, err := fx.svc.GetNegocio(otro.ID, negocio.ID)
		assert.ErrorIs(t, err, ErrNoMembership)
	})

	t.Run("missing negocio", func(t *testing.T) {
		_, err := fx.svc.GetNegocio(jefe.ID, 99999)
		assert.ErrorIs(t, err, ErrNegocioNotFound)
	})
}

func TestNegocioService_UpdateNombre(t *testing.T) {
	fx := setupNegocioService(t)
	jefe := fx.createUsuario(t, "jefa", "11111111A", "jefa@example.com")

	negocio, err := fx.svc.CreateNegocio(jefe.ID, "Panadería Sol", "B12345678")
	require.NoError(t, err)
	trabajador := fx.createMember(t, negocio.ID, "curro", model.RolTrabajador)

	t.Run("jefe can rename", func(t *testing.T) {
		actualizado, err := fx.svc.UpdateNombre(jefe.ID, negocio.ID, "Panadería Sol y Mar")
		require.NoError(t, err)
		assert.Equal(t, "Panadería Sol y Mar", actualizado.Nombre)
	})

	t.Run("trabajador cannot rename", func(t *testing.T) {
		_, err := fx.svc.UpdateNombre(trabajador.ID, negocio.ID, "Intento")
		assert.ErrorIs(t, err, ErrInsufficientRole)
	})

	t.Run("blank nombre is rejected", func(t *testing.T) {
		_, err := fx.svc.UpdateNombre(jefe.ID, negocio.ID, "   ")
		assert.ErrorIs(t, err, ErrBlankFields)
	})

	t.Run("missing negocio", func(t *testing.T) {
		_, err := fx.svc.UpdateNombre(jefe.ID, 99999, "Nombre")
		assert.ErrorIs(t, err, ErrNegocioNotFound)
	})
}

func TestNegocioService_DeleteNegocio(t *testing.T) {
	fx := setupNegocioService(t)
	jefe := fx.createUsuario(t, "jefa", "11111111A", "jefa@example.com")

	negocio, err := fx.svc.CreateNegocio(jefe.ID, "Panadería Sol", "B12345678")
	require.NoError(t, err)
	trabajador := fx.createMember(t, negocio.ID, "curro", model.RolTrabajador)

	t.Run("trabajador cannot delete", func(t *testing.T) {
		err := fx.svc.DeleteNegocio(trabajador.ID, negocio.ID)
		assert.ErrorIs(t, err, ErrInsufficientRole)
	})

	t.Run("jefe deletes the negocio and all memberships", func(t *testing.T) {
		require.NoError(t, fx.svc.DeleteNegocio(jefe.ID, negocio.ID))

		err := fx.svc.DeleteNegocio(jefe.ID, negocio.ID)
		assert.ErrorIs(t, err, ErrNegocioNotFound)

		var count int64
		require.NoError(t, fx.db.Model(&model.UsuarioNegocio{}).
			Where("negocio_id = ?", negocio.ID).Count(&count).Error)
		assert.Zero(t, count)
	})
}

func TestNegocioService_ListMembers(t *testing.T) {
	fx := setupNegocioService(t)
	jefe := fx.createUsuario(t, "jefa", "11111111A", "jefa@example.com")

	negocio, err := fx.svc.CreateNegocio(jefe.ID, "Panadería Sol", "B12345678")
	require.NoError(t, err)
	trabajador := fx.createMember(t, negocio.ID, "curro", model.RolTrabajador)

	t.Run("jefe lists members with usuario data", func(t *testing.T) {
		miembros, err := fx.svc.ListMembers(jefe.ID, negocio.ID)
		require.NoError(t, err)
		require.Len(t, miembros, 3)
		for _, m := range miembros {
			assert.NotEmpty(t, m.Usuario.NombreUsuario)
		}
	})

	t.Run("trabajador cannot list members", func(t *testing.T) {
		_, err := fx.svc.ListMembers(trabajador.ID, negocio.ID)
		assert.ErrorIs(t, err, ErrInsufficientRole)
	})

	t.Run("non member cannot list members", func(t *testing.T) {
		otro := fx.createUsuario(t, "otro", "33333333C", "otro@example.com")
		_, err := fx.svc.ListMembers(otro.ID, negocio.ID)
		assert.ErrorIs(t, err, ErrNoMembership)
	})
}

func TestNegocioService_GrantAccess(t *testing.T) {
	fx := setupNegocioService(t)
	jefe := fx.createUsuario(t, "jefa", "11111111A", "jefa@example.com")

	negocio, err := fx.svc.CreateNegocio(jefe.ID, "Panadería Sol", "B12345678")
	require.NoError(t, err)
	trabajador := fx.createMember(t, negocio.ID, "curro", model.RolTrabajador)
	nuevo := fx.createUsuario(t, "nuevo", "44444444D", "nuevo@example.com")

	t.Run("admin rol is never assignable", func(t *testing.T) {
		_, err := fx.svc.GrantAccess(jefe.ID, negocio.ID, nuevo.ID, model.RolAdmin)
		assert.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("unknown rol is rejected", func(t *testing.T) {
		_, err := fx.svc.GrantAccess(jefe.ID, negocio.ID, nuevo.ID, model.RolNegocio("gerente"))
		assert.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("trabajador cannot grant", func(t *testing.T) {
		_, err := fx.svc.GrantAccess(trabajador.ID, negocio.ID, nuevo.ID, model.RolTrabajador)
		assert.ErrorIs(t, err, ErrInsufficientRole)
	})

	t.Run("unknown target usuario", func(t *testing.T) {
		_, err := fx.svc.GrantAccess(jefe.ID, negocio.ID, 99999, model.RolTrabajador)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("jefe grants access", func(t *testing.T) {
		membresia, err := fx.svc.GrantAccess(jefe.ID, negocio.ID, nuevo.ID, model.RolTrabajador)
		require.NoError(t, err)
		assert.Equal(t, model.RolTrabajador, membresia.Rol)
		assert.Equal(t, "nuevo", membresia.Usuario.NombreUsuario)
	})

	t.Run("duplicate grant is rejected", func(t *testing.T) {
		_, err := fx.svc.GrantAccess(jefe.ID, negocio.ID, nuevo.ID, model.RolJefe)
		assert.ErrorIs(t, err, ErrMembershipExists)
	})

	t.Run("admin can grant in any negocio", func(t *testing.T) {
		otro := fx.createUsuario(t, "otromas", "55555555E", "otromas@example.com")
		_, err := fx.svc.GrantAccess(testAdminID, negocio.ID, otro.ID, model.RolJefe)
		assert.NoError(t, err)
	})
}

func TestNegocioService_ChangeRole(t *testing.T) {
	fx := setupNegocioService(t)
	jefe := fx.createUsuario(t, "jefa", "11111111A", "jefa@example.com")

	negocio, err := fx.svc.CreateNegocio(jefe.ID, "Panadería Sol", "B12345678")
	require.NoError(t, err)
	trabajador := fx.createMember(t, negocio.ID, "curro", model.RolTrabajador)

	t.Run("jefe promotes a trabajador", func(t *testing.T) {
		membresia, err := fx.svc.ChangeRole(jefe.ID, negocio.ID, trabajador.ID, model.RolJefe)
		require.NoError(t, err)
		assert.Equal(t, model.RolJefe, membresia.Rol)

		stored, err := fx.membresiaRepo.Find(trabajador.ID, negocio.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RolJefe, stored.Rol)
	})

	t.Run("admin rol is not assignable", func(t *testing.T) {
		_, err := fx.svc.ChangeRole(jefe.ID, negocio.ID, trabajador.ID, model.RolAdmin)
		assert.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("target without membership", func(t *testing.T) {
		otro := fx.createUsuario(t, "otro", "33333333C", "otro@example.com")
		_, err := fx.svc.ChangeRole(jefe.ID, negocio.ID, otro.ID, model.RolTrabajador)
		assert.ErrorIs(t, err, ErrMembershipNotFound)
	})

	t.Run("admin membership is untouchable by every caller", func(t *testing.T) {
		callers := []uint{jefe.ID, trabajador.ID, testAdminID}
		for _, caller := range callers {
			_, err := fx.svc.ChangeRole(caller, negocio.ID, testAdminID, model.RolTrabajador)
			assert.Error(t, err, "caller %d", caller)
		}
		// Management-capable callers hit the admin guard specifically
		_, err := fx.svc.ChangeRole(jefe.ID, negocio.ID, testAdminID, model.RolTrabajador)
		assert.ErrorIs(t, err, ErrAdminImmutable)
	})
}

func TestNegocioService_RevokeAccess(t *testing.T) {
	fx := setupNegocioService(t)
	jefe := fx.createUsuario(t, "jefa", "11111111A", "jefa@example.com")

	negocio, err := fx.svc.CreateNegocio(jefe.ID, "Panadería Sol", "B12345678")
	require.NoError(t, err)
	trabajador := fx.createMember(t, negocio.ID, "curro", model.RolTrabajador)

	t.Run("trabajador cannot revoke", func(t *testing.T) {
		err := fx.svc.RevokeAccess(trabajador.ID, negocio.ID, jefe.ID)
		assert.ErrorIs(t, err, ErrInsufficientRole)
	})

	t.Run("admin membership cannot be revoked", func(t *testing.T) {
		err := fx.svc.RevokeAccess(jefe.ID, negocio.ID, testAdminID)
		assert.ErrorIs(t, err, ErrAdminImmutable)
	})

	t.Run("target without membership", func(t *testing.T) {
		otro := fx.createUsuario(t, "otro", "33333333C", "otro@example.com")
		err := fx.svc.RevokeAccess(jefe.ID, negocio.ID, otro.ID)
		assert.ErrorIs(t, err, ErrMembershipNotFound)
	})

	t.Run("jefe revokes a trabajador", func(t *testing.T) {
		require.NoError(t, fx.svc.RevokeAccess(jefe.ID, negocio.ID, trabajador.ID))

		_, err := fx.membresiaRepo.Find(trabajador.ID, negocio.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}
