package storefront

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestResolver(storage LocalStorage, directory CustomerDirectory) *IdentityResolver {
	r := NewIdentityResolver(storage, directory, zap.NewNop())
	r.newID = func() string { return "minted-id" }
	return r
}

func TestIdentityResolver_LocalIDSkipsNetwork(t *testing.T) {
	ctx := context.Background()
	storage := newRecordingStorage()
	require.NoError(t, storage.SetItem(ctx, UserOrderIDKey, "U-local"))
	directory := new(MockCustomerDirectory)

	id, err := newTestResolver(storage, directory).Resolve(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "U-local", id)
	directory.AssertNotCalled(t, "LookupCustomer", mock.Anything, mock.Anything)
}

func TestIdentityResolver_AdoptsExistingCustomer(t *testing.T) {
	ctx := context.Background()
	storage := newRecordingStorage()
	directory := new(MockCustomerDirectory)
	directory.On("LookupCustomer", mock.Anything, "a@x.com").Return("U1", true, nil)

	id, err := newTestResolver(storage, directory).Resolve(ctx, "  a@x.com ")
	require.NoError(t, err)
	assert.Equal(t, "U1", id)

	stored, ok, _ := storage.GetItem(ctx, UserOrderIDKey)
	assert.True(t, ok)
	assert.Equal(t, "U1", stored)
	directory.AssertNotCalled(t, "RegisterCustomer", mock.Anything, mock.Anything, mock.Anything)
}

func TestIdentityResolver_MintsAndRegistersNewCustomer(t *testing.T) {
	ctx := context.Background()
	storage := newRecordingStorage()
	directory := new(MockCustomerDirectory)
	directory.On("LookupCustomer", mock.Anything, "a@x.com").Return("", false, nil)
	directory.On("RegisterCustomer", mock.Anything, "a@x.com", "minted-id").Return("minted-id", true, nil)

	id, err := newTestResolver(storage, directory).Resolve(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "minted-id", id)

	stored, _, _ := storage.GetItem(ctx, UserOrderIDKey)
	assert.Equal(t, "minted-id", stored)
	directory.AssertExpectations(t)
}

func TestIdentityResolver_ServerCanonicalIDWins(t *testing.T) {
	ctx := context.Background()
	storage := newRecordingStorage()
	directory := new(MockCustomerDirectory)
	directory.On("LookupCustomer", mock.Anything, "a@x.com").Return("", false, nil)
	directory.On("RegisterCustomer", mock.Anything, "a@x.com", "minted-id").Return("U-winner", false, nil)

	id, err := newTestResolver(storage, directory).Resolve(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "U-winner", id)

	stored, _, _ := storage.GetItem(ctx, UserOrderIDKey)
	assert.Equal(t, "U-winner", stored)
}

func TestIdentityResolver_RegistrationFailureDiscardsMintedID(t *testing.T) {
	ctx := context.Background()
	storage := newRecordingStorage()
	directory := new(MockCustomerDirectory)
	netErr := errors.New("connection refused")
	directory.On("LookupCustomer", mock.Anything, "a@x.com").Return("", false, nil)
	directory.On("RegisterCustomer", mock.Anything, "a@x.com", "minted-id").Return("", false, netErr)

	_, err := newTestResolver(storage, directory).Resolve(ctx, "a@x.com")
	assert.ErrorIs(t, err, ErrIdentityUnresolved)
	assert.ErrorIs(t, err, netErr)

	_, ok, _ := storage.GetItem(ctx, UserOrderIDKey)
	assert.False(t, ok)
}

func TestIdentityResolver_LookupFailureIsFatal(t *testing.T) {
	ctx := context.Background()
	storage := newRecordingStorage()
	directory := new(MockCustomerDirectory)
	directory.On("LookupCustomer", mock.Anything, "a@x.com").Return("", false, errors.New("timeout"))

	id, err := newTestResolver(storage, directory).Resolve(ctx, "a@x.com")
	assert.ErrorIs(t, err, ErrIdentityUnresolved)
	assert.Empty(t, id)
	assert.Zero(t, storage.writesTo(UserOrderIDKey))
}

func TestIdentityResolver_EmailRequired(t *testing.T) {
	directory := new(MockCustomerDirectory)
	_, err := newTestResolver(newRecordingStorage(), directory).Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmailRequired)
	directory.AssertNotCalled(t, "LookupCustomer", mock.Anything, mock.Anything)
}

func TestIdentityResolver_UnreadableStorageFallsBackToDirectory(t *testing.T) {
	storage := newRecordingStorage()
	storage.failRead = true
	directory := new(MockCustomerDirectory)
	directory.On("LookupCustomer", mock.Anything, "a@x.com").Return("U1", true, nil)

	id, err := newTestResolver(storage, directory).Resolve(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "U1", id)
}

func TestIdentityResolver_SameEmailSameIdentityAcrossDevices(t *testing.T) {
	ctx := context.Background()
	server := newServerDirectory()

	laptop := NewIdentityResolver(newRecordingStorage(), server, zap.NewNop())
	phone := NewIdentityResolver(newRecordingStorage(), server, zap.NewNop())

	first, err := laptop.Resolve(ctx, "a@x.com")
	require.NoError(t, err)
	second, err := phone.Resolve(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.NoError(t, laptop.Forget(ctx))
	again, err := laptop.Resolve(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, 3, server.lookups)
}

func TestIdentityResolver_MintedIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	server := newServerDirectory()
	seen := map[string]bool{}
	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		id, err := NewIdentityResolver(newRecordingStorage(), server, nil).Resolve(ctx, email)
		require.NoError(t, err)
		assert.Len(t, id, 36)
		assert.False(t, seen[id])
		seen[id] = true
	}
}
