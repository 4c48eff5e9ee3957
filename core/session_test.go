package core

import (
	"testing"
	"time"

	"github.com/huangsam/metricsgraph/internal/iocache"
	"github.com/huangsam/metricsgraph/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSessionRecorderLifecycle(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Minute)

	store := &iocache.MockSessionStore{}
	store.On("BeginSession", mock.MatchedBy(func(r schema.SessionRecord) bool {
		return r.SessionID != "" && r.Surface == "watch" && r.InitialMetric == "time" && r.StartedAt.Equal(start)
	})).Return(nil)
	store.On("RecordTransition", mock.AnythingOfType("string"), mock.AnythingOfType("schema.Transition")).Return(nil)
	store.On("EndSession", mock.AnythingOfType("string"), end, 2).Return(nil)

	rec := StartSession(store, schema.WatchSurface, "time", start)
	require.Len(t, rec.ID(), 36)

	c, err := NewController(DefaultRegistry(), WithListener(rec.Record))
	require.NoError(t, err)
	c.Tick()
	_, err = c.Select("adoption")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Transitions())

	rec.End(end)
	rec.End(end.Add(time.Hour))

	// Transitions after the end are dropped
	c.Tick()
	assert.Equal(t, 2, rec.Transitions())

	store.AssertExpectations(t)
	store.AssertNumberOfCalls(t, "EndSession", 1)
	store.AssertNumberOfCalls(t, "RecordTransition", 2)
	for _, call := range store.Calls {
		if call.Method == "RecordTransition" || call.Method == "EndSession" {
			assert.Equal(t, rec.ID(), call.Arguments.String(0))
		}
	}
}

func TestSessionRecorderNilStore(t *testing.T) {
	rec := StartSession(nil, schema.StreamSurface, "accuracy", time.Now())
	assert.NotEmpty(t, rec.ID())

	rec.Record(schema.Transition{Seq: 1, From: "accuracy", To: "adoption", Cause: schema.AutoCause})
	assert.Equal(t, 1, rec.Transitions())
	rec.End(time.Now())
}

func TestSessionRecorderBeginFailure(t *testing.T) {
	store := &iocache.MockSessionStore{}
	store.On("BeginSession", mock.Anything).Return(assert.AnError)

	rec := StartSession(store, schema.WatchSurface, "time", time.Now())
	rec.Record(schema.Transition{Seq: 1})
	rec.End(time.Now())

	store.AssertNumberOfCalls(t, "BeginSession", 1)
	store.AssertNotCalled(t, "RecordTransition", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "EndSession", mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionRecorderStoreErrorsAreNotFatal(t *testing.T) {
	store := &iocache.MockSessionStore{}
	store.On("BeginSession", mock.Anything).Return(nil)
	store.On("RecordTransition", mock.Anything, mock.Anything).Return(assert.AnError)
	store.On("EndSession", mock.Anything, mock.Anything, 1).Return(assert.AnError)

	rec := StartSession(store, schema.WatchSurface, "time", time.Now())
	rec.Record(schema.Transition{Seq: 1})
	rec.End(time.Now())

	assert.Equal(t, 1, rec.Transitions())
	store.AssertExpectations(t)
}

func TestMountSession(t *testing.T) {
	store := &iocache.MockSessionStore{}
	store.On("BeginSession", mock.MatchedBy(func(r schema.SessionRecord) bool {
		return r.Surface == "stream" && r.InitialMetric == "accuracy"
	})).Return(nil)
	store.On("RecordTransition", mock.Anything, mock.Anything).Return(nil)
	store.On("EndSession", mock.Anything, mock.Anything, 1).Return(nil)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetSessionStore").Return(store)

	cfg := executorConfig()
	cfg.InitialMetric = "accuracy"
	cfg.Interval = time.Second

	var seen []string
	ctrl, rec, err := MountSession(cfg, mgr, schema.StreamSurface, func(tr schema.Transition) { seen = append(seen, tr.To) })
	require.NoError(t, err)
	assert.Equal(t, "accuracy", ctrl.Active())
	assert.Equal(t, time.Second, ctrl.Interval())

	ctrl.Tick()
	assert.Equal(t, []string{"adoption"}, seen)
	assert.Equal(t, 1, rec.Transitions())
	rec.End(time.Now())
	store.AssertExpectations(t)
}

func TestMountSessionErrors(t *testing.T) {
	cfg := executorConfig()
	cfg.InitialMetric = "missing"
	store := &iocache.MockSessionStore{}
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetSessionStore").Return(store)

	_, _, err := MountSession(cfg, mgr, schema.WatchSurface)
	var unknown *schema.UnknownMetricError
	assert.ErrorAs(t, err, &unknown)
	store.AssertNotCalled(t, "BeginSession", mock.Anything)

	cfg.Registry = nil
	_, _, err = MountSession(cfg, nil, schema.WatchSurface)
	assert.Error(t, err)
}

func TestSessionRecorderSlowStoreDoesNotBlock(t *testing.T) {
	const delay = 200 * time.Millisecond
	store := &iocache.MockSessionStore{}
	store.On("BeginSession", mock.Anything).Return(nil)
	store.On("RecordTransition", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		time.Sleep(delay)
	}).Return(nil)
	store.On("EndSession", mock.Anything, mock.Anything, 3).Return(nil)

	rec := StartSession(store, schema.WatchSurface, "time", time.Now())
	c, err := NewController(DefaultRegistry(), WithListener(rec.Record))
	require.NoError(t, err)

	start := time.Now()
	_, err = c.Select("adoption")
	require.NoError(t, err)
	c.Tick()
	_, err = c.Select("accuracy")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), delay)
	assert.Equal(t, "accuracy", c.Active())

	// End waits for the queue so every transition lands before the end row
	rec.End(time.Now())
	store.AssertExpectations(t)

	var seqs []uint64
	for _, call := range store.Calls {
		if call.Method == "RecordTransition" {
			seqs = append(seqs, call.Arguments.Get(1).(schema.Transition).Seq)
		}
	}
	assert.Equal(t, []uint64{1, 2, 3}, seqs)
}
