package storefront

import (
	"context"
	"errors"
	"sync"

	"github.com/storefront/backend/internal/infrastructure/localstore"
	"github.com/storefront/backend/internal/infrastructure/storefrontapi"
	"github.com/stretchr/testify/mock"
)

var errStorage = errors.New("quota exceeded")

// recordingStorage wraps an in-memory store and records every write
type recordingStorage struct {
	*localstore.MemoryStore

	mu        sync.Mutex
	writes    []string
	failRead  bool
	failWrite bool
}

func newRecordingStorage() *recordingStorage {
	return &recordingStorage{MemoryStore: localstore.NewMemoryStore()}
}

func (s *recordingStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	if s.failRead {
		return "", false, errStorage
	}
	return s.MemoryStore.GetItem(ctx, key)
}

func (s *recordingStorage) SetItem(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.writes = append(s.writes, key)
	s.mu.Unlock()
	if s.failWrite {
		return errStorage
	}
	return s.MemoryStore.SetItem(ctx, key, value)
}

func (s *recordingStorage) writesTo(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, k := range s.writes {
		if k == key {
			n++
		}
	}
	return n
}

// MockCustomerDirectory is a mock implementation of CustomerDirectory
type MockCustomerDirectory struct {
	mock.Mock
}

func (m *MockCustomerDirectory) LookupCustomer(ctx context.Context, email string) (string, bool, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockCustomerDirectory) RegisterCustomer(ctx context.Context, email, userOrderID string) (string, bool, error) {
	args := m.Called(ctx, email, userOrderID)
	return args.String(0), args.Bool(1), args.Error(2)
}

// MockOrderGateway is a mock implementation of OrderGateway
type MockOrderGateway struct {
	mock.Mock
}

func (m *MockOrderGateway) PlaceOrder(ctx context.Context, order storefrontapi.Order) (*storefrontapi.Order, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefrontapi.Order), args.Error(1)
}

func (m *MockOrderGateway) ListOrders(ctx context.Context, userOrderID string) ([]storefrontapi.Order, error) {
	args := m.Called(ctx, userOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storefrontapi.Order), args.Error(1)
}

// serverDirectory simulates the customer registry with a unique email index
type serverDirectory struct {
	mu        sync.Mutex
	customers map[string]string
	lookups   int
}

func newServerDirectory() *serverDirectory {
	return &serverDirectory{customers: map[string]string{}}
}

func (d *serverDirectory) LookupCustomer(_ context.Context, email string) (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lookups++
	id, ok := d.customers[email]
	return id, ok, nil
}

func (d *serverDirectory) RegisterCustomer(_ context.Context, email, userOrderID string) (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if id, ok := d.customers[email]; ok {
		return id, false, nil
	}
	d.customers[email] = userOrderID
	return userOrderID, true, nil
}
