package storage

import (
	"context"
	"errors"
	"time"

	"taskflow/internal/util/logger"

	"github.com/sony/gobreaker"
)

// BreakerStore fails fast with gobreaker.ErrOpenState once the wrapped
// store keeps failing. Domain outcomes (not found, failed conditions,
// duplicates, bad queries) do not count as failures.
type BreakerStore struct {
	inner   DocumentStore
	breaker *gobreaker.CircuitBreaker
}

func NewBreakerStore(inner DocumentStore, name string) *BreakerStore {
	log := logger.GetLogger()

	return &BreakerStore{
		inner: inner,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     5 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 3
			},
			IsSuccessful: isBreakerSuccess,
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn("store circuit breaker changed state", "name", name, "from", from.String(), "to", to.String())
			},
		}),
	}
}

func isBreakerSuccess(err error) bool {
	return err == nil ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConditionFailed) ||
		errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrInvalidQuery)
}

func (s *BreakerStore) State() gobreaker.State {
	return s.breaker.State()
}

func (s *BreakerStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	result, err := s.breaker.Execute(func() (any, error) {
		return s.inner.Insert(ctx, collection, doc)
	})
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

func (s *BreakerStore) Get(ctx context.Context, collection string, id string) (Document, error) {
	result, err := s.breaker.Execute(func() (any, error) {
		return s.inner.Get(ctx, collection, id)
	})
	if err != nil {
		return nil, err
	}

	return result.(Document), nil
}

func (s *BreakerStore) Update(
	ctx context.Context,
	collection string,
	id string,
	patch Patch,
	conditions ...Predicate,
) error {
	_, err := s.breaker.Execute(func() (any, error) {
		return nil, s.inner.Update(ctx, collection, id, patch, conditions...)
	})

	return err
}

func (s *BreakerStore) Delete(ctx context.Context, collection string, id string) error {
	_, err := s.breaker.Execute(func() (any, error) {
		return nil, s.inner.Delete(ctx, collection, id)
	})

	return err
}

func (s *BreakerStore) Find(ctx context.Context, collection string, query Query) ([]Document, error) {
	result, err := s.breaker.Execute(func() (any, error) {
		return s.inner.Find(ctx, collection, query)
	})
	if err != nil {
		return nil, err
	}

	return result.([]Document), nil
}

func (s *BreakerStore) Ping(ctx context.Context) error {
	_, err := s.breaker.Execute(func() (any, error) {
		return nil, s.inner.Ping(ctx)
	})

	return err
}

func (s *BreakerStore) Close(ctx context.Context) error {
	return s.inner.Close(ctx)
}
