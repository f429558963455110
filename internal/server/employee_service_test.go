package server

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/staffdesk/internal/config"
	"github.com/jonathan/staffdesk/internal/types"
)

func newEmployeeService(t *testing.T) (*EmployeeService, *fakeStore) {
	t.Helper()
	store := &fakeStore{employees: &memTable[types.Employee, *types.Employee]{}}
	return NewEmployeeService(store, &config.PasswordConfig{BcryptCost: 10}), store
}

func TestEmployeeService_PrepareEmployee(t *testing.T) {
	service, _ := newEmployeeService(t)
	ctx := context.Background()

	e := &types.Employee{Password: "a-fine-password"}
	require.NoError(t, service.PrepareEmployee(ctx, e))
	assert.Empty(t, e.Password)
	assert.True(t, service.passwordConfig.VerifyPassword("a-fine-password", e.PasswordHash))

	kept := &types.Employee{PasswordHash: "stored"}
	require.NoError(t, service.PrepareEmployee(ctx, kept))
	assert.Equal(t, "stored", kept.PasswordHash)

	err := service.PrepareEmployee(ctx, &types.Employee{Password: strings.Repeat("x", 80)})
	var verr *ErrValidation
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)
}

func TestEmployeeService_Get(t *testing.T) {
	service, store := newEmployeeService(t)
	id := store.employees.add(types.Employee{Name: "Asha", PasswordHash: "hash"})

	got, err := service.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.Name)
	assert.Empty(t, got.PasswordHash)

	_, err = service.Get(context.Background(), uuid.New())
	var notFound *ErrEmployeeNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestEmployeeService_LoginWithoutPassword(t *testing.T) {
	service, store := newEmployeeService(t)
	store.employees.add(types.Employee{Email: "new@agency.in", Status: types.StatusActive})

	_, err := service.Login(context.Background(), &types.LoginRequest{Email: "new@agency.in", Password: ""})
	var invalid *ErrInvalidCredentials
	assert.ErrorAs(t, err, &invalid)
}
