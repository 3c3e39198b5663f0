package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	env_utils "taskflow/internal/util/env"
	"taskflow/internal/util/logger"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

var log = logger.GetLogger()

const (
	StoreDriverMemory   = "memory"
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
)

type EnvVariables struct {
	IsTesting       bool
	EnvMode         env_utils.EnvMode `env:"ENV_MODE"    env-default:"development"`
	ServerPort      string            `env:"SERVER_PORT" env-default:"4005"`
	BackendRootPath string            `env:"BACKEND_ROOT_PATH"`
	// document store
	StoreDriver         string `env:"STORE_DRIVER"          env-default:"memory"`
	StoreBreakerEnabled bool   `env:"STORE_BREAKER_ENABLED" env-default:"false"`
	MongoURI            string `env:"MONGO_URI"`
	MongoDBName         string `env:"MONGO_DB_NAME"         env-default:"taskflow"`
	DatabaseDsn         string `env:"DATABASE_DSN"`
	// cache, disabled when host is empty
	ValkeyHost     string `env:"VALKEY_HOST"`
	ValkeyPort     string `env:"VALKEY_PORT"     env-default:"6379"`
	ValkeyUsername string `env:"VALKEY_USERNAME"`
	ValkeyPassword string `env:"VALKEY_PASSWORD"`
	ValkeyIsSsl    bool   `env:"VALKEY_IS_SSL"   env-default:"false"`
	// auth
	JwtSecret string `env:"JWT_SECRET"`
}

var (
	env  EnvVariables
	once sync.Once
)

func GetEnv() EnvVariables {
	once.Do(loadEnvVariables)
	return env
}

func (e EnvVariables) IsCacheEnabled() bool {
	return e.ValkeyHost != ""
}

func loadEnvVariables() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Warn("could not get current working directory", "error", err)
		cwd = "."
	}

	backendRoot := cwd
	for {
		if _, err := os.Stat(filepath.Join(backendRoot, "go.mod")); err == nil {
			break
		}

		parent := filepath.Dir(backendRoot)
		if parent == backendRoot {
			break
		}

		backendRoot = parent
	}

	envPaths := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(backendRoot, ".env"),
	}

	var loaded bool
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Info("Successfully loaded .env", "path", path)
			loaded = true
			break
		}
	}

	if !loaded {
		log.Warn("No .env file found, using process environment only")
	}

	err = cleanenv.ReadEnv(&env)
	if err != nil {
		log.Error("Configuration could not be loaded", "error", err)
		os.Exit(1)
	}

	if env.BackendRootPath == "" {
		env.BackendRootPath = backendRoot
	}

	for _, arg := range os.Args {
		if strings.Contains(arg, "test") {
			env.IsTesting = true
			break
		}
	}

	if !env.EnvMode.IsValid() {
		log.Error("ENV_MODE is invalid", "mode", env.EnvMode)
		os.Exit(1)
	}
	log.Info("ENV_MODE loaded", "mode", env.EnvMode)

	switch env.StoreDriver {
	case StoreDriverMemory:
		if env.EnvMode == env_utils.EnvModeProduction {
			log.Warn("STORE_DRIVER is memory in production, data will not survive restarts")
		}
	case StoreDriverMongo:
		if env.MongoURI == "" {
			log.Error("MONGO_URI is empty")
			os.Exit(1)
		}
	case StoreDriverPostgres:
		if env.DatabaseDsn == "" {
			log.Error("DATABASE_DSN is empty")
			os.Exit(1)
		}
	default:
		log.Error("STORE_DRIVER is invalid", "driver", env.StoreDriver)
		os.Exit(1)
	}

	if env.ValkeyHost != "" && env.ValkeyPort == "" {
		log.Error("VALKEY_PORT is empty")
		os.Exit(1)
	}

	log.Info("Environment variables loaded successfully!", "storeDriver", env.StoreDriver)
}
