package config

import (
	"time"

	"github.com/spf13/viper"
)

// defaults lists every key Load understands. Keys without a sensible
// default are registered with their zero value.
var defaults = map[string]any{
	"app.name":    "assetdesk",
	"app.env":     "development",
	"app.port":    "8080",
	"app.version": "dev",

	"database.driver":             "postgres",
	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "assetdesk",
	"database.sslmode":            "disable",
	"database.sqlite_path":        "assetdesk.db",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  time.Hour,
	"database.conn_max_idle_time": 30 * time.Minute,

	"redis.enabled":  false,
	"redis.host":     "localhost",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"jwt.secret":            "",
	"jwt.issuer":            "assetdesk",
	"jwt.allow_team_header": false,

	"log.level":        "info",
	"log.format":       "console",
	"log.output":       "stdout",
	"log.file_path":    "logs/assetdesk.log",
	"log.max_size_mb":  100,
	"log.max_backups":  5,
	"log.max_age_days": 30,
	"log.compress":     false,

	"http.read_timeout":       30 * time.Second,
	"http.write_timeout":      30 * time.Second,
	"http.idle_timeout":       60 * time.Second,
	"http.request_timeout":    30 * time.Second,
	"http.slow_request":       2 * time.Second,
	"http.shutdown_timeout":   15 * time.Second,
	"http.max_header_bytes":   1 << 20,
	"http.max_body_size":      int64(50 << 20), // several 4MB files per request
	"http.max_json_body_size": int64(1 << 20),
	// no cross-origin requests until origins are configured
	"http.cors_allow_origins": []string{},
	"http.cors_allow_methods": []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
	"http.cors_allow_headers": []string{"Content-Type", "Authorization", "X-Request-ID", "X-Team-ID", "Idempotency-Key"},
	"http.trusted_proxies":    []string{},

	"storage.driver":             "local",
	"storage.bucket":             "",
	"storage.region":             "us-east-1",
	"storage.endpoint":           "",
	"storage.access_key":         "",
	"storage.secret_key":         "",
	"storage.use_ssl":            false,
	"storage.use_path_style":     false,
	"storage.public_url":         "",
	"storage.local_root":         "storage",
	"storage.credentials_file":   "",
	"storage.presign_expiration": time.Hour,

	"upload.max_image_kb":        int64(4096),
	"upload.max_file_kb":         int64(4096),
	"upload.max_logo_kb":         int64(1024),
	"upload.image_mime_types":    []string{"image/jpeg", "image/png"},
	"upload.file_mime_types":     []string{"image/jpeg", "image/png", "application/pdf"},
	"upload.idempotency_enabled": true,
	"upload.idempotency_ttl":     24 * time.Hour,

	"audit.retention":      time.Duration(0),
	"audit.purge_interval": 6 * time.Hour,

	"telemetry.enabled":                 false,
	"telemetry.collector_endpoint":      "localhost:4317",
	"telemetry.sampling_ratio":          1.0,
	"telemetry.service_name":            "assetdesk",
	"telemetry.insecure":                false,
	"telemetry.metrics_enabled":         false,
	"telemetry.metrics_interval":        time.Minute,
	"telemetry.logs_enabled":            false,
	"telemetry.db_trace_enabled":        false,
	"telemetry.db_log_full_sql":         false,
	"telemetry.db_slow_query_threshold": 200 * time.Millisecond,
	"telemetry.profiling_enabled":       false,
	"telemetry.pyroscope_url":           "http://localhost:4040",
	"telemetry.profile_contention":      false,
}

func setDefaults(v *viper.Viper) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}
