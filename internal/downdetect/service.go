package downdetect

import (
	"context"
	"fmt"
	"time"

	"taskflow/internal/storage"
	cache_utils "taskflow/internal/util/cache"
)

type DowndetectService struct {
	store func() storage.DocumentStore
}

func (s *DowndetectService) IsAvailable(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.store().Ping(pingCtx); err != nil {
		return fmt.Errorf("store check failed: %w", err)
	}

	if err := s.testCacheConnection(); err != nil {
		return fmt.Errorf("cache check failed: %w", err)
	}

	return nil
}

func (s *DowndetectService) testCacheConnection() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cache connection test panicked: %v", r)
		}
	}()

	return cache_utils.TestCacheConnection()
}
