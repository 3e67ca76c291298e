package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultLocalPort      = ":8080"
	defaultIndexerURL     = "http://localhost:3000"
	defaultNetwork        = "mainnet"
	defaultRegistryPath   = "daos.yaml"
	defaultRequestTimeout = 10 * time.Second
	defaultDaoCacheTTL    = 5 * time.Minute
	defaultLogLevel       = "info"
)

// Init sets the defaults and binds the configuration to the environment.
func Init() {
	viper.SetDefault("PORT", "")
	viper.SetDefault("INDEXER_URL", defaultIndexerURL)
	viper.SetDefault("NETWORK", defaultNetwork)
	viper.SetDefault("REGISTRY_PATH", defaultRegistryPath)
	viper.SetDefault("REQ_TIMEOUT", defaultRequestTimeout.String())
	viper.SetDefault("DAO_CACHE_TTL", defaultDaoCacheTTL.String())
	viper.SetDefault("LOG_LEVEL", defaultLogLevel)
	viper.AutomaticEnv()
}

// GetPort returns port prepended with `:`
func GetPort() string {
	port := viper.GetString("PORT")
	if port == "" {
		return defaultLocalPort
	}
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	return port
}

func GetIndexerURL() string {
	return stringOr("INDEXER_URL", defaultIndexerURL)
}

func GetNetwork() string {
	return strings.ToLower(stringOr("NETWORK", defaultNetwork))
}

func GetRegistryPath() string {
	return stringOr("REGISTRY_PATH", defaultRegistryPath)
}

func GetLogLevel() string {
	return stringOr("LOG_LEVEL", defaultLogLevel)
}

func GetRequestTimeout() time.Duration {
	return durationOr("REQ_TIMEOUT", defaultRequestTimeout)
}

// GetDaoCacheTTL is how long DAO records fetched from the indexer are reused.
func GetDaoCacheTTL() time.Duration {
	return durationOr("DAO_CACHE_TTL", defaultDaoCacheTTL)
}

func stringOr(key, fallback string) string {
	value := strings.TrimSpace(viper.GetString(key))
	if value == "" {
		return fallback
	}
	return value
}

func durationOr(key string, fallback time.Duration) time.Duration {
	value := viper.GetDuration(key)
	if value <= 0 {
		return fallback
	}
	return value
}
