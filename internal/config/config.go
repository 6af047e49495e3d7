package config

type Config interface {
	EnvConfig
	StoreConfig
}

type EnvConfig interface {
	GetBaseURL() string
	GetAppName() string
	GetRequestTimeout() string
	GetEnv() string
}

// StoreKind selects the session persistence tier.
type StoreKind string

const (
	StoreMemory StoreKind = "memory"
	StoreFile   StoreKind = "file"
	StoreRedis  StoreKind = "redis"
)

type StoreConfig interface {
	GetStoreKind() StoreKind
	GetTokenFile() string
	GetRedisAddr() string
	GetRedisKey() string
}

type mainConfig struct {
	EnvVars
	StoreVars
}

func New() Config {
	return mainConfig{}
}
