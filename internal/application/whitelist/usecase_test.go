package whitelist_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/presale-api/internal/application/whitelist"
	"github.com/jhoicas/presale-api/internal/domain"
	"github.com/jhoicas/presale-api/internal/infrastructure/memory"
)

// stubACL solo "admin-1" administra la whitelist.
type stubACL struct{ err error }

func (s stubACL) CanManageWhitelist(_ context.Context, principalID string) (bool, error) {
	return principalID == "admin-1", s.err
}

var (
	alice = common.HexToAddress("0x000000000000000000000000000000000000a001")
	bob   = common.HexToAddress("0x000000000000000000000000000000000000a002")
)

func newUseCase(acl whitelist.AccessControl) *whitelist.UseCase {
	return whitelist.NewUseCase(memory.NewStore().Whitelist(), acl, zerolog.Nop())
}

func TestAdd_Idempotente(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(stubACL{})

	require.NoError(t, uc.Add(ctx, "admin-1", alice))
	require.NoError(t, uc.Add(ctx, "admin-1", alice))

	ok, err := uc.IsWhitelisted(ctx, alice)
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := uc.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{alice}, list)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(stubACL{})

	require.NoError(t, uc.Remove(ctx, "admin-1", alice), "quitar una cuenta ausente no falla")
	require.NoError(t, uc.Add(ctx, "admin-1", alice))
	require.NoError(t, uc.Remove(ctx, "admin-1", alice))

	ok, _ := uc.IsWhitelisted(ctx, alice)
	assert.False(t, ok)
}

func TestAutorizacion(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(stubACL{})

	assert.ErrorIs(t, uc.Add(ctx, "", alice), domain.ErrUnauthorized)
	assert.ErrorIs(t, uc.Add(ctx, "operator-1", alice), domain.ErrForbidden)
	assert.ErrorIs(t, uc.AddBatch(ctx, "operator-1", []common.Address{alice}), domain.ErrForbidden)

	ok, _ := uc.IsWhitelisted(ctx, alice)
	assert.False(t, ok, "un rechazo no escribe")

	failing := newUseCase(stubACL{err: errors.New("db caída")})
	assert.EqualError(t, failing.Add(ctx, "admin-1", alice), "db caída")
}

func TestAddBatch(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(stubACL{})

	assert.ErrorIs(t, uc.AddBatch(ctx, "admin-1", nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, uc.AddBatch(ctx, "admin-1", []common.Address{alice, {}}), domain.ErrInvalidInput)
	ok, _ := uc.IsWhitelisted(ctx, alice)
	assert.False(t, ok, "una cuenta cero invalida todo el lote")

	require.NoError(t, uc.AddBatch(ctx, "admin-1", []common.Address{alice, bob}))
	list, _ := uc.List(ctx, 10, 0)
	assert.Len(t, list, 2)
}

func TestAdd_CuentaCero(t *testing.T) {
	uc := newUseCase(stubACL{})
	assert.ErrorIs(t, uc.Add(context.Background(), "admin-1", common.Address{}), domain.ErrInvalidInput)
}
