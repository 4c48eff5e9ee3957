package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/huangsam/metricsgraph/internal/iocache"
	"github.com/huangsam/metricsgraph/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCacheStore for testing (alias for MockCacheStore)
type MockCacheStore = iocache.MockCacheStore

func cachedAccuracy(t *testing.T) []byte {
	t.Helper()
	chart, err := ChartFor(DefaultRegistry(), "accuracy", schema.DefaultGeometry)
	require.NoError(t, err)
	data, err := json.Marshal(chart)
	require.NoError(t, err)
	return data
}

func TestCheckCacheHit_CacheHit(t *testing.T) {
	mockStore := &MockCacheStore{}
	mockStore.On("Get", "test-key").Return(cachedAccuracy(t), currentCacheVersion, time.Now().Unix(), nil)

	chart, ok := checkCacheHit(mockStore, "test-key")
	assert.True(t, ok)
	assert.Equal(t, "accuracy", chart.MetricID)
	assert.Equal(t, "97%", chart.Callout.Text)
	mockStore.AssertExpectations(t)
}

func TestCheckCacheHit_CacheMiss_VersionMismatch(t *testing.T) {
	mockStore := &MockCacheStore{}
	mockStore.On("Get", "test-key").Return(cachedAccuracy(t), currentCacheVersion-1, time.Now().Unix(), nil)

	_, ok := checkCacheHit(mockStore, "test-key")
	assert.False(t, ok)
	mockStore.AssertExpectations(t)
}

func TestCheckCacheHit_CacheMiss_Stale(t *testing.T) {
	mockStore := &MockCacheStore{}

	// Stale entry (older than 7 days)
	staleTime := time.Now().Add(-8 * 24 * time.Hour).Unix()
	mockStore.On("Get", "test-key").Return(cachedAccuracy(t), currentCacheVersion, staleTime, nil)

	_, ok := checkCacheHit(mockStore, "test-key")
	assert.False(t, ok)
	mockStore.AssertExpectations(t)
}

func TestCheckCacheHit_CacheMiss_Error(t *testing.T) {
	mockStore := &MockCacheStore{}
	mockStore.On("Get", "test-key").Return([]byte{}, 0, int64(0), assert.AnError)

	_, ok := checkCacheHit(mockStore, "test-key")
	assert.False(t, ok)
	mockStore.AssertExpectations(t)
}

func TestCheckCacheHit_CacheMiss_UnmarshalError(t *testing.T) {
	mockStore := &MockCacheStore{}
	mockStore.On("Get", "test-key").Return([]byte("invalid json"), currentCacheVersion, time.Now().Unix(), nil)

	_, ok := checkCacheHit(mockStore, "test-key")
	assert.False(t, ok)
	mockStore.AssertExpectations(t)
}

func TestChartCacheKey(t *testing.T) {
	fp := DefaultRegistry().Fingerprint()
	key := chartCacheKey(fp, "time", schema.DefaultGeometry)
	assert.Len(t, key, 64)
	assert.Equal(t, key, chartCacheKey(fp, "time", schema.DefaultGeometry))

	assert.NotEqual(t, key, chartCacheKey(fp, "accuracy", schema.DefaultGeometry))
	assert.NotEqual(t, key, chartCacheKey("other", "time", schema.DefaultGeometry))
	assert.NotEqual(t, key, chartCacheKey(fp, "time", schema.Geometry{Width: 501, Height: 280, Padding: 40}))
}

func TestCachedBuildChart_NoManager(t *testing.T) {
	chart, err := CachedBuildChart(nil, DefaultRegistry(), "time", schema.DefaultGeometry)
	require.NoError(t, err)
	assert.Equal(t, "time", chart.MetricID)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetChartStore").Return(nil)
	chart, err = CachedBuildChart(mgr, DefaultRegistry(), "adoption", schema.DefaultGeometry)
	require.NoError(t, err)
	assert.Equal(t, "adoption", chart.MetricID)
	mgr.AssertExpectations(t)
}

func TestCachedBuildChart_Miss(t *testing.T) {
	reg := DefaultRegistry()
	key := chartCacheKey(reg.Fingerprint(), "accuracy", schema.DefaultGeometry)

	mockStore := &MockCacheStore{}
	mockStore.On("Get", key).Return([]byte{}, 0, int64(0), assert.AnError)
	mockStore.On("Set", key, mock.AnythingOfType("[]uint8"), currentCacheVersion, mock.AnythingOfType("int64")).Return(nil)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetChartStore").Return(mockStore)

	chart, err := CachedBuildChart(mgr, reg, "accuracy", schema.DefaultGeometry)
	require.NoError(t, err)
	assert.Equal(t, "97%", chart.Callout.Text)

	stored := mockStore.Calls[1].Arguments.Get(1).([]byte)
	var decoded schema.Chart
	require.NoError(t, json.Unmarshal(stored, &decoded))
	assert.Equal(t, chart, decoded)

	mockStore.AssertExpectations(t)
	mgr.AssertExpectations(t)
}

func TestCachedBuildChart_Hit(t *testing.T) {
	reg := DefaultRegistry()
	key := chartCacheKey(reg.Fingerprint(), "accuracy", schema.DefaultGeometry)

	mockStore := &MockCacheStore{}
	mockStore.On("Get", key).Return(cachedAccuracy(t), currentCacheVersion, time.Now().Unix(), nil)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetChartStore").Return(mockStore)

	chart, err := CachedBuildChart(mgr, reg, "accuracy", schema.DefaultGeometry)
	require.NoError(t, err)
	assert.Equal(t, "accuracy", chart.MetricID)
	mockStore.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedBuildChart_SetFailureIsNotFatal(t *testing.T) {
	mockStore := &MockCacheStore{}
	mockStore.On("Get", mock.Anything).Return([]byte{}, 0, int64(0), assert.AnError)
	mockStore.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetChartStore").Return(mockStore)

	chart, err := CachedBuildChart(mgr, DefaultRegistry(), "time", schema.DefaultGeometry)
	require.NoError(t, err)
	assert.Equal(t, "time", chart.MetricID)
}

func TestCachedBuildChart_UnknownMetric(t *testing.T) {
	mockStore := &MockCacheStore{}
	mockStore.On("Get", mock.Anything).Return([]byte{}, 0, int64(0), assert.AnError)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetChartStore").Return(mockStore)

	_, err := CachedBuildChart(mgr, DefaultRegistry(), "missing", schema.DefaultGeometry)
	var unknown *schema.UnknownMetricError
	assert.ErrorAs(t, err, &unknown)
	mockStore.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
