package resultstore

import (
	"github.com/stretchr/testify/mock"

	"github.com/crashlab/crashpulse/internal/contract"
	"github.com/crashlab/crashpulse/schema"
)

// MockStore is a mock implementation of ResultStore for testing.
type MockStore struct {
	mock.Mock
}

var _ contract.ResultStore = &MockStore{} // Compile-time check

// BeginRun implements the ResultStore interface.
func (m *MockStore) BeginRun(params map[string]any) (int64, error) {
	args := m.Called(params)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the ResultStore interface.
func (m *MockStore) EndRun(runID int64, cases int) error {
	args := m.Called(runID, cases)
	return args.Error(0)
}

// UpsertMetrics implements the ResultStore interface.
func (m *MockStore) UpsertMetrics(rows []schema.MetricRow) error {
	args := m.Called(rows)
	return args.Error(0)
}

// GetMetrics implements the ResultStore interface.
func (m *MockStore) GetMetrics(testNo int64) (*schema.MetricRow, error) {
	args := m.Called(testNo)
	row, _ := args.Get(0).(*schema.MetricRow)
	return row, args.Error(1)
}

// ListMetrics implements the ResultStore interface.
func (m *MockStore) ListMetrics(limit int) ([]schema.MetricRow, error) {
	args := m.Called(limit)
	rows, _ := args.Get(0).([]schema.MetricRow)
	return rows, args.Error(1)
}

// ListRuns implements the ResultStore interface.
func (m *MockStore) ListRuns(limit int) ([]schema.RunRecord, error) {
	args := m.Called(limit)
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// Clear implements the ResultStore interface.
func (m *MockStore) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// Close implements the ResultStore interface.
func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
