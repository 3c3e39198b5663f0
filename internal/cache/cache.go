package cache

import (
	"crypto/tls"
	"sync"

	"taskflow/internal/config"
	"taskflow/internal/util/logger"

	"github.com/valkey-io/valkey-go"
)

var (
	once         sync.Once
	valkeyClient valkey.Client
)

// GetCache returns the shared Valkey client, or nil when VALKEY_HOST is not
// configured. Callers treat a nil client as a disabled cache.
func GetCache() valkey.Client {
	once.Do(func() {
		env := config.GetEnv()
		if !env.IsCacheEnabled() {
			logger.GetLogger().Info("VALKEY_HOST is empty, cache is disabled")
			return
		}

		options := valkey.ClientOption{
			InitAddress: []string{env.ValkeyHost + ":" + env.ValkeyPort},
			Password:    env.ValkeyPassword,
			Username:    env.ValkeyUsername,
		}

		if env.ValkeyIsSsl {
			options.TLSConfig = &tls.Config{
				ServerName: env.ValkeyHost,
			}
		}

		client, err := valkey.NewClient(options)
		if err != nil {
			panic(err)
		}

		valkeyClient = client
	})

	return valkeyClient
}
