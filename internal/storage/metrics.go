package storage

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type storeMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newStoreMetrics(registerer prometheus.Registerer) *storeMetrics {
	metrics := &storeMetrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "store_operations_total",
				Help: "Document store operations by collection, operation and result",
			},
			[]string{"driver", "collection", "operation", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "store_operation_duration_seconds",
				Help:    "Document store operation duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
			},
			[]string{"driver", "collection", "operation"},
		),
	}

	metrics.operations = registerOrExisting(registerer, metrics.operations)
	metrics.duration = registerOrExisting(registerer, metrics.duration)

	return metrics
}

func registerOrExisting[T prometheus.Collector](registerer prometheus.Registerer, collector T) T {
	if registerer == nil {
		return collector
	}

	if err := registerer.Register(collector); err != nil {
		var alreadyRegistered prometheus.AlreadyRegisteredError
		if errors.As(err, &alreadyRegistered) {
			if existing, ok := alreadyRegistered.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}

	return collector
}

// InstrumentedStore records a counter and a latency histogram for every
// call to the wrapped store.
type InstrumentedStore struct {
	inner   DocumentStore
	driver  string
	metrics *storeMetrics
}

func NewInstrumentedStore(inner DocumentStore, driver string, registerer prometheus.Registerer) *InstrumentedStore {
	return &InstrumentedStore{
		inner:   inner,
		driver:  driver,
		metrics: newStoreMetrics(registerer),
	}
}

func (s *InstrumentedStore) observe(collection string, operation string, startedAt time.Time, err error) {
	s.metrics.duration.
		WithLabelValues(s.driver, collection, operation).
		Observe(time.Since(startedAt).Seconds())

	s.metrics.operations.
		WithLabelValues(s.driver, collection, operation, resultLabel(err)).
		Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConditionFailed):
		return "condition_failed"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrInvalidQuery):
		return "invalid_query"
	default:
		return "error"
	}
}

func (s *InstrumentedStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	startedAt := time.Now()
	id, err := s.inner.Insert(ctx, collection, doc)
	s.observe(collection, "insert", startedAt, err)

	return id, err
}

func (s *InstrumentedStore) Get(ctx context.Context, collection string, id string) (Document, error) {
	startedAt := time.Now()
	doc, err := s.inner.Get(ctx, collection, id)
	s.observe(collection, "get", startedAt, err)

	return doc, err
}

func (s *InstrumentedStore) Update(
	ctx context.Context,
	collection string,
	id string,
	patch Patch,
	conditions ...Predicate,
) error {
	startedAt := time.Now()
	err := s.inner.Update(ctx, collection, id, patch, conditions...)
	s.observe(collection, "update", startedAt, err)

	return err
}

func (s *InstrumentedStore) Delete(ctx context.Context, collection string, id string) error {
	startedAt := time.Now()
	err := s.inner.Delete(ctx, collection, id)
	s.observe(collection, "delete", startedAt, err)

	return err
}

func (s *InstrumentedStore) Find(ctx context.Context, collection string, query Query) ([]Document, error) {
	startedAt := time.Now()
	docs, err := s.inner.Find(ctx, collection, query)
	s.observe(collection, "find", startedAt, err)

	return docs, err
}

func (s *InstrumentedStore) Ping(ctx context.Context) error {
	startedAt := time.Now()
	err := s.inner.Ping(ctx)
	s.observe("", "ping", startedAt, err)

	return err
}

func (s *InstrumentedStore) Close(ctx context.Context) error {
	return s.inner.Close(ctx)
}
