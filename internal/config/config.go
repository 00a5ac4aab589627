package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	// HTTP server
	Port string

	// Store
	DataBackend  string // file | sqlite | memory
	SnapshotPath string
	SnapshotKey  string
	SQLiteDBPath string

	// Session
	SessionPath string

	// Remote auth (disabled when the key is empty)
	GoogleIdentityAPIKey string

	// Entry sync (disabled when the URL is empty)
	AMQPURL       string
	AMQPExchange  string
	AMQPQueue     string
	SyncTargetURL string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend:  getEnv("DATA_BACKEND", "file"),
		SnapshotPath: getEnv("SNAPSHOT_PATH", "./data/worktracker.json"),
		SnapshotKey:  getEnv("SNAPSHOT_KEY", "worktracker_db_v1"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/worktracker.db"),

		SessionPath: getEnv("SESSION_PATH", "./data/wt_session.json"),

		GoogleIdentityAPIKey: getEnv("GOOGLE_IDENTITY_API_KEY", ""),

		AMQPURL:       getEnv("AMQP_URL", ""),
		AMQPExchange:  getEnv("AMQP_EXCHANGE", "worktracker"),
		AMQPQueue:     getEnv("AMQP_QUEUE", "entry_sync"),
		SyncTargetURL: getEnv("SYNC_TARGET_URL", ""),
	}
}

// Validate checks the configuration and returns all problems at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "file":
		if c.SnapshotPath == "" {
			errs = append(errs, "snapshot path cannot be empty when using file backend")
		} else {
			errs = append(errs, checkDir(filepath.Dir(c.SnapshotPath))...)
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			errs = append(errs, checkDir(filepath.Dir(c.SQLiteDBPath))...)
		}
	case "memory":
		// Nothing durable to check.
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [file sqlite memory]", c.DataBackend))
	}

	if c.SessionPath == "" {
		errs = append(errs, "session path cannot be empty")
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
		if c.SyncTargetURL == "" {
			errs = append(errs, "sync target URL is required when AMQP URL is provided")
		}
	}

	if c.SyncTargetURL != "" {
		if parsed, err := url.Parse(c.SyncTargetURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
			errs = append(errs, fmt.Sprintf("invalid sync target URL '%s'", c.SyncTargetURL))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// SyncEnabled reports whether the entry sync pipeline is configured.
func (c *Config) SyncEnabled() bool {
	return c.AMQPURL != "" && c.SyncTargetURL != ""
}

func checkDir(dir string) []string {
	if dir == "." || dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return []string{fmt.Sprintf("cannot create data directory '%s': %v", dir, err)}
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
