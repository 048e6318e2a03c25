package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmadepot/bodega-api/internal/application/auth"
	"github.com/farmadepot/bodega-api/internal/domain"
	"github.com/farmadepot/bodega-api/internal/domain/entity"
	"github.com/farmadepot/bodega-api/internal/infrastructure/memory"
	pkgjwt "github.com/farmadepot/bodega-api/pkg/jwt"
)

const testSecret = "secreto-de-pruebas-bodega"

func newUseCase() *auth.UseCase {
	return auth.NewUseCase(memory.NewStore().Users(), auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 60,
		Issuer:     "bodega-farma",
	})
}

func TestRegisterYLogin(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()

	u, err := uc.Register(ctx, auth.RegisterInput{
		Email:     "operador@bodega.co",
		Name:      "Operador Uno",
		Password:  "clave-segura-1",
		Role:      entity.RoleWarehouse,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "clave-segura-1", u.PasswordHash, "la contraseña nunca se guarda en claro")

	token, logged, err := uc.Login(ctx, "operador@bodega.co", "clave-segura-1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	// El token porta identidad, rol y alcance para armar el Actor.
	userID, role, clientIDs, err := pkgjwt.Parse(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.Equal(t, entity.RoleWarehouse, role)
	assert.Empty(t, clientIDs)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	_, err := uc.Register(ctx, auth.RegisterInput{
		Email: "cliente@farma.co", Password: "clave-segura-1",
		Role: entity.RoleClient, ClientIDs: []string{"cli-1"},
	})
	require.NoError(t, err)

	_, _, err = uc.Login(ctx, "cliente@farma.co", "clave-equivocada")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, _, err = uc.Login(ctx, "nadie@farma.co", "clave-segura-1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "usuario inexistente responde igual que clave mala")
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	in := auth.RegisterInput{Email: "admin@bodega.co", Password: "clave-segura-1", Role: entity.RoleAdmin}

	_, err := uc.Register(ctx, in)
	require.NoError(t, err)
	_, err = uc.Register(ctx, in)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_EntradaInvalida(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()

	_, err := uc.Register(ctx, auth.RegisterInput{Email: "a@b.co", Password: "corta", Role: entity.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "contraseña mínima de 8 caracteres")

	_, err = uc.Register(ctx, auth.RegisterInput{Email: "a@b.co", Password: "clave-segura-1", Role: "gerente"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "rol desconocido")

	_, err = uc.Register(ctx, auth.RegisterInput{Email: "a@b.co", Password: "clave-segura-1", Role: entity.RoleClient})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "rol cliente exige clientes asignados")
}
