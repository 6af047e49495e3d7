package config

import "os"

const (
	baseURLVar   = "SPINDO_BASE_URL"
	appNameVar   = "SPINDO_APP_NAME"
	timeoutVar   = "SPINDO_REQUEST_TIMEOUT"
	storeKindVar = "SPINDO_STORE"
	tokenFileVar = "SPINDO_TOKEN_FILE"
	redisAddrVar = "SPINDO_REDIS_ADDR"
	redisKeyVar  = "SPINDO_REDIS_KEY"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

// GetBaseURL returns the marketplace backend root
// (e.g. "https://mahadevaaya.com/spindo/spindobackend").
func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, "https://mahadevaaya.com/spindo/spindobackend")
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Spindo Client")
}

// GetRequestTimeout returns the fixed request timeout as a duration
// string (parsed by the caller with time.ParseDuration).
func (EnvVars) GetRequestTimeout() string {
	return GetEnv(timeoutVar, "15s")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

type StoreVars struct{}

var _ StoreConfig = StoreVars{}

func (StoreVars) GetStoreKind() StoreKind {
	return StoreKind(GetEnv(storeKindVar, string(StoreFile)))
}

func (StoreVars) GetTokenFile() string {
	if path := os.Getenv(tokenFileVar); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".spindo/session.json"
	}
	return home + "/.spindo/session.json"
}

func (StoreVars) GetRedisAddr() string {
	return GetEnv(redisAddrVar, "localhost:6379")
}

func (StoreVars) GetRedisKey() string {
	return GetEnv(redisKeyVar, "spindo:session")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
