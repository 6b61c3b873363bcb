package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/inventario-ledger/pkg/jwt"
)

const secret = "test-secret"

func setup(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	store := memory.NewStore()
	users := usecase.NewUserUseCase(store.Users())
	_, err := users.Create(context.Background(), dto.CreateUserRequest{Username: "ana", Password: "secreta123", Name: "Ana", Role: "ADMIN"})
	require.NoError(t, err)
	return auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 10, Issuer: "test"})
}

func TestLogin_CredencialesValidas(t *testing.T) {
	uc := setup(t)

	resp, err := uc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "secreta123"})
	require.NoError(t, err)
	assert.Equal(t, "ana", resp.User.Username)

	userID, username, role, err := pkgjwt.Parse(secret, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
	assert.Equal(t, "ana", username)
	assert.Equal(t, "ADMIN", role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := setup(t)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
