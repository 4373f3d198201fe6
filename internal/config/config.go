package config

import "time"

type Config interface {
	EnvConfig
	SessionConfig
}

type EnvConfig interface {
	GetAppName() string
	GetAPIBaseURL() string
	GetEnv() string
}

type SessionConfig interface {
	GetSessionFile() string
	GetSessionKey() string
	GetLoginTimeout() time.Duration
	GetHealthTimeout() time.Duration
	GetRequestTimeout() time.Duration
	GetExpiryBuffer() time.Duration
	GetGracePeriod() time.Duration
}

type mainConfig struct {
	EnvVars
	Session
}

func New() Config {
	loadDotEnv()
	return mainConfig{}
}
