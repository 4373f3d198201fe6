package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	sessionFileVar    = "SESSION_FILE"
	sessionKeyVar     = "SESSION_KEY"
	loginTimeoutVar   = "LOGIN_TIMEOUT"
	healthTimeoutVar  = "HEALTH_TIMEOUT"
	requestTimeoutVar = "REQUEST_TIMEOUT"
	expiryBufferVar   = "TOKEN_EXPIRY_BUFFER"
	gracePeriodVar    = "TOKEN_GRACE_PERIOD"
)

const (
	defaultLoginTimeout   = 10 * time.Second
	defaultHealthTimeout  = 5 * time.Second
	defaultRequestTimeout = 30 * time.Second
	defaultExpiryBuffer   = 30 * time.Second
	defaultGracePeriod    = 10 * time.Second
)

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetSessionFile() string {
	if v := os.Getenv(sessionFileVar); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jamcha-session.json"
	}
	return filepath.Join(home, ".jamcha", "session.json")
}

// GetSessionKey returns the hex-encoded 32-byte key used to encrypt the
// session file at rest. Empty means the file is written in the clear.
func (Session) GetSessionKey() string {
	return GetEnv(sessionKeyVar, "")
}

func (Session) GetLoginTimeout() time.Duration {
	return getDuration(loginTimeoutVar, defaultLoginTimeout)
}

func (Session) GetHealthTimeout() time.Duration {
	return getDuration(healthTimeoutVar, defaultHealthTimeout)
}

func (Session) GetRequestTimeout() time.Duration {
	return getDuration(requestTimeoutVar, defaultRequestTimeout)
}

func (Session) GetExpiryBuffer() time.Duration {
	return getDuration(expiryBufferVar, defaultExpiryBuffer)
}

func (Session) GetGracePeriod() time.Duration {
	return getDuration(gracePeriodVar, defaultGracePeriod)
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}
	return d
}
