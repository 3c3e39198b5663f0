package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"taskflow/internal/config"
	"taskflow/internal/util/logger"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrAlreadyExists   = errors.New("document already exists")
	ErrConditionFailed = errors.New("update condition failed")
	ErrInvalidQuery    = errors.New("invalid query")
)

// DocumentStore is a collection-oriented document store. Documents are
// addressed by collection name and string id; the id is mirrored into the
// "id" field of every document returned.
type DocumentStore interface {
	// Insert stores doc under doc["id"] when set, or under a generated id.
	Insert(ctx context.Context, collection string, doc Document) (string, error)
	Get(ctx context.Context, collection string, id string) (Document, error)
	// Update applies patch to the document. When conditions are given the
	// write only happens if they all hold, otherwise ErrConditionFailed.
	Update(ctx context.Context, collection string, id string, patch Patch, conditions ...Predicate) error
	Delete(ctx context.Context, collection string, id string) error
	Find(ctx context.Context, collection string, query Query) ([]Document, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

var (
	store     DocumentStore
	storeOnce sync.Once
)

// GetStore returns the process-wide store for the configured driver.
func GetStore() DocumentStore {
	storeOnce.Do(func() {
		env := config.GetEnv()

		inner, err := openStore(env)
		if err != nil {
			logger.GetLogger().Error("failed to open document store", "driver", env.StoreDriver, "error", err)
			panic(err)
		}

		store = NewInstrumentedStore(inner, env.StoreDriver, prometheus.DefaultRegisterer)

		if env.StoreBreakerEnabled {
			store = NewBreakerStore(store, "document-store")
		}
	})

	return store
}

func openStore(env config.EnvVariables) (DocumentStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	switch env.StoreDriver {
	case config.StoreDriverMemory:
		return NewMemoryStore(), nil
	case config.StoreDriverMongo:
		return NewMongoStore(ctx, env.MongoURI, env.MongoDBName)
	case config.StoreDriverPostgres:
		return NewPostgresStore(env.DatabaseDsn)
	default:
		return nil, fmt.Errorf("unknown store driver %q", env.StoreDriver)
	}
}
