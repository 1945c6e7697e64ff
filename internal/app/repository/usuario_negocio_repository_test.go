package repository

import (
	"testing"

	"github.com/minegocio/backend/internal/app/model"
	"github.com/minegocio/backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupMembresiaTest(t *testing.T) (UsuarioRepository, NegocioRepository, UsuarioNegocioRepository) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	return NewUsuarioRepository(testDB), NewNegocioRepository(testDB), NewUsuarioNegocioRepository(testDB)
}

func TestNegocioRepository_CIFUnique(t *testing.T) {
	_, negocioRepo, _ := setupMembresiaTest(t)

	require.NoError(t, negocioRepo.Create(&model.Negocio{Nombre: "Mi Tienda", CIF: "b12345678"}))

	err := negocioRepo.Create(&model.Negocio{Nombre: "Otra Tienda", CIF: "b12345678"})
	assert.Error(t, err)

	found, err := negocioRepo.FindByCIF("b12345678")
	require.NoError(t, err)
	assert.Equal(t, "Mi Tienda", found.Nombre)
}

func TestUsuarioNegocioRepository_Create(t *testing.T) {
	usuarioRepo, negocioRepo, membresiaRepo := setupMembresiaTest(t)

	usuario := newTestUsuario("ana", "12345678A", "ana@example.com")
	require.NoError(t, usuarioRepo.Create(usuario))

	negocio := &model.Negocio{Nombre: "Mi Tienda", CIF: "b12345678"}
	require.NoError(t, negocioRepo.Create(negocio))

	membresia := &model.UsuarioNegocio{
		UsuarioID: usuario.ID,
		NegocioID: negocio.ID,
		Rol:       model.RolJefe,
	}
	require.NoError(t, membresiaRepo.Create(membresia))

	// The composite primary key rejects a second row for the same pair
	err := membresiaRepo.Create(&model.UsuarioNegocio{
		UsuarioID: usuario.ID,
		NegocioID: negocio.ID,
		Rol:       model.RolTrabajador,
	})
	assert.Error(t, err)
}

func TestUsuarioNegocioRepository_FindByNegocio(t *testing.T) {
	usuarioRepo, negocioRepo, membresiaRepo := setupMembresiaTest(t)

	ana := newTestUsuario("ana", "12345678A", "ana@example.com")
	pedro := newTestUsuario("pedro", "87654321B", "pedro@example.com")
	require.NoError(t, usuarioRepo.Create(ana))
	require.NoError(t, usuarioRepo.Create(pedro))

	negocio := &model.Negocio{Nombre: "Mi Tienda", CIF: "b12345678"}
	require.NoError(t, negocioRepo.Create(negocio))

	require.NoError(t, membresiaRepo.Create(&model.UsuarioNegocio{UsuarioID: ana.ID, NegocioID: negocio.ID, Rol: model.RolJefe}))
	require.NoError(t, membresiaRepo.Create(&model.UsuarioNegocio{UsuarioID: pedro.ID, NegocioID: negocio.ID, Rol: model.RolTrabajador}))

	members, err := membresiaRepo.FindByNegocio(negocio.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "ana", members[0].Usuario.NombreUsuario)
	assert.Equal(t, model.RolJefe, members[0].Rol)
	assert.Equal(t, "pedro", members[1].Usuario.NombreUsuario)
}

func TestUsuarioNegocioRepository_FindByUsuario(t *testing.T) {
	usuarioRepo, negocioRepo, membresiaRepo := setupMembresiaTest(t)

	ana := newTestUsuario("ana", "12345678A", "ana@example.com")
	require.NoError(t, usuarioRepo.Create(ana))

	tienda := &model.Negocio{Nombre: "Mi Tienda", CIF: "b12345678"}
	bar := &model.Negocio{Nombre: "Bar Paco", CIF: "a87654321"}
	require.NoError(t, negocioRepo.Create(tienda))
	require.NoError(t, negocioRepo.Create(bar))

	require.NoError(t, membresiaRepo.Create(&model.UsuarioNegocio{UsuarioID: ana.ID, NegocioID: tienda.ID, Rol: model.RolJefe}))
	require.NoError(t, membresiaRepo.Create(&model.UsuarioNegocio{UsuarioID: ana.ID, NegocioID: bar.ID, Rol: model.RolTrabajador}))

	tests := []struct {
		name      string
		search    string
		wantCount int
	}{
		{name: "All memberships", search: "", wantCount: 2},
		{name: "Search by nombre", search: "tienda", wantCount: 1},
		{name: "Search by CIF", search: "A876", wantCount: 1},
		{name: "No match", search: "restaurante", wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			membresias, err := membresiaRepo.FindByUsuario(ana.ID, tt.search)
			require.NoError(t, err)
			assert.Len(t, membresias, tt.wantCount)
			for _, m := range membresias {
				assert.NotZero(t, m.Negocio.ID)
			}
		})
	}
}

func TestUsuarioNegocioRepository_UpdateRolAndDelete(t *testing.T) {
	usuarioRepo, negocioRepo, membresiaRepo := setupMembresiaTest(t)

	ana := newTestUsuario("ana", "12345678A", "ana@example.com")
	require.NoError(t, usuarioRepo.Create(ana))

	negocio := &model.Negocio{Nombre: "Mi Tienda", CIF: "b12345678"}
	require.NoError(t, negocioRepo.Create(negocio))

	require.NoError(t, membresiaRepo.Create(&model.UsuarioNegocio{UsuarioID: ana.ID, NegocioID: negocio.ID, Rol: model.RolTrabajador}))

	require.NoError(t, membresiaRepo.UpdateRol(ana.ID, negocio.ID, model.RolJefe))

	membresia, err := membresiaRepo.Find(ana.ID, negocio.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RolJefe, membresia.Rol)

	require.NoError(t, membresiaRepo.Delete(ana.ID, negocio.ID))

	_, err = membresiaRepo.Find(ana.ID, negocio.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
