package config // package config loads application configuration from environment variables

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Supported values for DB_DRIVER.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config holds all runtime configuration values of the API server.  Each
// field corresponds to an environment variable; see Load for defaults.
type Config struct {
	Env      string // application environment (dev, test, production)
	Port     string // HTTP port to listen on
	LogLevel string // debug, info, warn or error

	DB    DBConfig
	OMDb  OMDbConfig
	Auth  AuthConfig
	Event EventConfig
}

// DBConfig selects and addresses the relational store.
type DBConfig struct {
	Driver string // sqlite or mysql
	Path   string // sqlite database file
	User   string // mysql user
	Pass   string // mysql password (optional)
	Host   string // mysql host
	Port   string // mysql port
	Name   string // mysql schema
}

// OMDbConfig configures the external title lookup.
type OMDbConfig struct {
	Enabled bool
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// AuthConfig enables bearer-token protection of mutating routes.  Auth is
// active only when both Secret and PasswordHash are set.
type AuthConfig struct {
	Secret       string // HS256 signing secret
	AdminUser    string // login name accepted by /api/auth/login
	PasswordHash string // bcrypt hash of the admin password
	AccessTTLMin int    // token lifetime in minutes
}

// Enabled reports whether mutating routes require a token.
func (a AuthConfig) Enabled() bool {
	return a.Secret != "" && a.PasswordHash != ""
}

// EventConfig configures show change events.
type EventConfig struct {
	BrokerURL string // amqp URL; publishing is disabled when empty
	Consume   bool   // run the in-process log consumer
	LogDir    string // directory for the consumer's shows.log
}

// Load reads configuration values from environment variables.  Only the
// MySQL connection settings are mandatory, and only when DB_DRIVER=mysql.
func Load() (Config, error) {
	cfg := Config{
		Env:      envStr("APP_ENV", "dev"),
		Port:     envStr("APP_PORT", "5000"),
		LogLevel: envStr("LOG_LEVEL", "info"),
		DB: DBConfig{
			Driver: envStr("DB_DRIVER", DriverSQLite),
			Path:   envStr("DB_PATH", "library.db"),
			Pass:   os.Getenv("DB_PASS"),
		},
		OMDb: OMDbConfig{
			Enabled: envBool("OMDB_ENABLED", true),
			APIKey:  envStr("OMDB_API_KEY", "trilogy"),
			BaseURL: envStr("OMDB_BASE_URL", "http://www.omdbapi.com/"),
			Timeout: envDur("OMDB_TIMEOUT", 5*time.Second),
		},
		Auth: AuthConfig{
			Secret:       os.Getenv("JWT_SECRET"),
			AdminUser:    envStr("ADMIN_USER", "admin"),
			PasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		},
		Event: EventConfig{
			BrokerURL: firstNonEmpty(os.Getenv("RABBITMQ_URL"), os.Getenv("AMQP_URL")),
			Consume:   envBool("EVENTS_CONSUMER", false),
			LogDir:    envStr("EVENTS_LOG_DIR", "logs"),
		},
	}

	ttl, err := intVar("ACCESS_TOKEN_TTL_MIN", 60)
	if err != nil {
		return Config{}, err
	}
	cfg.Auth.AccessTTLMin = ttl

	switch cfg.DB.Driver {
	case DriverSQLite:
	case DriverMySQL:
		for _, f := range []struct {
			key string
			dst *string
		}{
			{"DB_USER", &cfg.DB.User},
			{"DB_HOST", &cfg.DB.Host},
			{"DB_PORT", &cfg.DB.Port},
			{"DB_NAME", &cfg.DB.Name},
		} {
			v, err := must(f.key)
			if err != nil {
				return Config{}, err
			}
			*f.dst = v
		}
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}
	return cfg, nil
}

// must retrieves the value of a required environment variable.
func must(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("missing required env var: %s", key)
	}
	return v, nil
}

// intVar is like envInt but rejects values that are set and not integers.
func intVar(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %q", key, s)
	}
	return n, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
