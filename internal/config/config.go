package config

import (
	"time"

	"github.com/spf13/viper"
)

type AuthMode string

const (
	AuthModeNone  AuthMode = "none"  // No authentication required (default)
	AuthModeToken AuthMode = "token" // Bearer token per user
)

type StorageBackend string

const (
	StorageSQLite StorageBackend = "sqlite"
	StorageMemory StorageBackend = "memory"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Storage
		Import
		Auth
		Audit
		Log
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Storage struct {
		Backend StorageBackend
	}
	Import struct {
		MaxFileMB     int64
		SessionTTL    time.Duration
		PurgeSchedule string // Cron format: "*/10 * * * *" = every 10 minutes
	}
	Auth struct {
		Mode AuthMode
	}
	Audit struct {
		RetentionDays   int    // Days to keep audit events (default: 90)
		CleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Log struct {
		Level  string
		Format string // "console" or "json"
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("storage_backend", string(StorageSQLite))

	v.SetDefault("import_max_file_mb", 10)
	v.SetDefault("import_session_ttl", "30m")
	v.SetDefault("import_purge_schedule", "*/10 * * * *")

	v.SetDefault("auth_mode", string(AuthModeNone))

	v.SetDefault("audit_retention_days", 90)
	v.SetDefault("audit_cleanup_schedule", "0 3 * * *") // Daily at 03:00

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Storage: Storage{
			Backend: StorageBackend(v.GetString("STORAGE_BACKEND")),
		},
		Import: Import{
			MaxFileMB:     v.GetInt64("IMPORT_MAX_FILE_MB"),
			SessionTTL:    v.GetDuration("IMPORT_SESSION_TTL"),
			PurgeSchedule: v.GetString("IMPORT_PURGE_SCHEDULE"),
		},
		Auth: Auth{
			Mode: AuthMode(v.GetString("AUTH_MODE")),
		},
		Audit: Audit{
			RetentionDays:   v.GetInt("AUDIT_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("AUDIT_CLEANUP_SCHEDULE"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}

// MaxUploadBytes is the largest accepted import file.
func (i Import) MaxUploadBytes() int64 {
	if i.MaxFileMB <= 0 {
		return 10 << 20
	}
	return i.MaxFileMB << 20
}
