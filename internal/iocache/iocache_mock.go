package iocache

import (
	"time"

	"github.com/huangsam/metricsgraph/internal/contract"
	"github.com/huangsam/metricsgraph/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetChartStore implements the CacheManager interface.
func (m *MockCacheManager) GetChartStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetSessionStore implements the CacheManager interface.
func (m *MockCacheManager) GetSessionStore() contract.SessionStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.SessionStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockSessionStore is a mock implementation of SessionStore for testing.
type MockSessionStore struct {
	mock.Mock
}

var _ contract.SessionStore = &MockSessionStore{} // Compile-time check

// BeginSession implements the SessionStore interface.
func (m *MockSessionStore) BeginSession(record schema.SessionRecord) error {
	args := m.Called(record)
	return args.Error(0)
}

// RecordTransition implements the SessionStore interface.
func (m *MockSessionStore) RecordTransition(sessionID string, transition schema.Transition) error {
	args := m.Called(sessionID, transition)
	return args.Error(0)
}

// EndSession implements the SessionStore interface.
func (m *MockSessionStore) EndSession(sessionID string, endedAt time.Time, transitions int) error {
	args := m.Called(sessionID, endedAt, transitions)
	return args.Error(0)
}

// GetStatus implements the SessionStore interface.
func (m *MockSessionStore) GetStatus() (schema.SessionStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.SessionStatus), args.Error(1)
}

// GetAllSessions implements the SessionStore interface.
func (m *MockSessionStore) GetAllSessions() ([]schema.SessionRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.SessionRecord)
	return records, args.Error(1)
}

// GetAllTransitions implements the SessionStore interface.
func (m *MockSessionStore) GetAllTransitions() ([]schema.TransitionRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.TransitionRecord)
	return records, args.Error(1)
}

// Close implements the SessionStore interface.
func (m *MockSessionStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
