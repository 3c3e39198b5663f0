package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_InstrumentedStore_CountsOperationsByResult(t *testing.T) {
	registry := prometheus.NewRegistry()
	store := NewInstrumentedStore(NewMemoryStore(), "memory", registry)
	ctx := context.Background()

	id, err := store.Insert(ctx, "tasks", Document{"title": "t"})
	require.NoError(t, err)
	_, err = store.Get(ctx, "tasks", id)
	require.NoError(t, err)
	_, err = store.Get(ctx, "tasks", "missing")
	require.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, float64(1), testutil.ToFloat64(
		store.metrics.operations.WithLabelValues("memory", "tasks", "insert", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		store.metrics.operations.WithLabelValues("memory", "tasks", "get", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		store.metrics.operations.WithLabelValues("memory", "tasks", "get", "not_found")))
}

func Test_NewInstrumentedStore_RegisteredTwice_ReusesCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()

	first := NewInstrumentedStore(NewMemoryStore(), "memory", registry)
	second := NewInstrumentedStore(NewMemoryStore(), "memory", registry)

	assert.Same(t, first.metrics.operations, second.metrics.operations)
}

type failingStore struct {
	*MemoryStore
	err error
}

func (s *failingStore) Get(_ context.Context, _ string, _ string) (Document, error) {
	return nil, s.err
}

func Test_BreakerStore_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &failingStore{MemoryStore: NewMemoryStore(), err: errors.New("connection refused")}
	store := NewBreakerStore(inner, "test-open")

	for i := 0; i < 4; i++ {
		_, err := store.Get(context.Background(), "tasks", "x")
		assert.Error(t, err)
	}

	assert.Equal(t, gobreaker.StateOpen, store.State())

	_, err := store.Get(context.Background(), "tasks", "x")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func Test_BreakerStore_DomainOutcomesDoNotTrip(t *testing.T) {
	inner := &failingStore{MemoryStore: NewMemoryStore(), err: ErrNotFound}
	store := NewBreakerStore(inner, "test-domain")

	for i := 0; i < 10; i++ {
		_, err := store.Get(context.Background(), "tasks", "x")
		assert.ErrorIs(t, err, ErrNotFound)
	}

	assert.Equal(t, gobreaker.StateClosed, store.State())
}
