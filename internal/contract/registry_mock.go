package contract

import (
	"github.com/huangsam/metricsgraph/schema"
	"github.com/stretchr/testify/mock"
)

// MockRegistryLoader is a mock implementation of RegistryLoader for testing.
type MockRegistryLoader struct {
	mock.Mock
}

var _ RegistryLoader = &MockRegistryLoader{} // Compile-time check

// Load implements the RegistryLoader interface.
func (m *MockRegistryLoader) Load(path string, inline []schema.MetricDataset) (MetricRegistry, error) {
	args := m.Called(path, inline)
	reg, _ := args.Get(0).(MetricRegistry)
	return reg, args.Error(1)
}

// MockRegistry is a mock implementation of MetricRegistry for testing.
type MockRegistry struct {
	mock.Mock
}

var _ MetricRegistry = &MockRegistry{} // Compile-time check

// Get implements the MetricRegistry interface.
func (m *MockRegistry) Get(id string) (schema.MetricDataset, error) {
	args := m.Called(id)
	if fn, ok := args.Get(0).(func(string) (schema.MetricDataset, error)); ok {
		return fn(id)
	}
	d, _ := args.Get(0).(schema.MetricDataset)
	return d, args.Error(1)
}

// ListIDs implements the MetricRegistry interface.
func (m *MockRegistry) ListIDs() []string {
	args := m.Called()
	ids, _ := args.Get(0).([]string)
	return ids
}

// Datasets implements the MetricRegistry interface.
func (m *MockRegistry) Datasets() []schema.MetricDataset {
	args := m.Called()
	ds, _ := args.Get(0).([]schema.MetricDataset)
	return ds
}

// Fingerprint implements the MetricRegistry interface.
func (m *MockRegistry) Fingerprint() string {
	return m.Called().String(0)
}
