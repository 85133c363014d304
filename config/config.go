package config

import "time"

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"thesis-manager-api"`
	Port                          int      `env:"PORT" env-default:"3001"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	MaxHeaderBytes                int      `env:"HTTP_SERVER_MAX_HEADER_BYTES" env-default:"64000"` // 64KB
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST,PUT,PATCH,DELETE"`

	// PostgreSQL
	DatabaseDriver                string        `env:"DB_DRIVER" env-default:"postgres"`
	DatabaseHost                  string        `env:"DB_HOST" env-default:"localhost"`
	DatabasePort                  string        `env:"DB_PORT" env-default:"5432"`
	DatabaseUserName              string        `env:"DB_USER_NAME" env-default:""`
	DatabasePassword              string        `env:"DB_PASSWORD" env-default:""`
	DatabaseName                  string        `env:"DB_NAME" env-default:"thesis_manager"`
	DatabaseSSLMode               string        `env:"DB_SSL_MODE" env-default:"disable"`
	DatabaseMaxOpenConns          int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DatabaseMaxIdleConns          int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	DatabaseConnMaxLifetime       time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	DatabaseMigrationFolderPath   string        `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`
	DatabaseMigrationVersion      int           `env:"DB_MIGRATION_VERSION" env-default:"0"`
	DatabaseMigrationForce        int           `env:"DB_MIGRATION_FORCE" env-default:"0"`
	DatabaseMigrationAutoRollback bool          `env:"DB_MIGRATION_AUTO_ROLLBACK" env-default:"true"`

	// Auth
	AuthEnabled bool `env:"AUTH_ENABLED" env-default:"true"`

	// Notifications
	EmailNotificationsEnabled bool `env:"EMAIL_NOTIFICATIONS_ENABLED" env-default:"false"`

	// Thesis Manager API (used by the importer, reporter and seeder CLIs)
	ThesisManagerURL      string        `env:"THESIS_MANAGER_URL" env-default:"http://localhost:3001"`
	ThesisManagerAPIToken string        `env:"THESIS_MANAGER_API_TOKEN" env-default:""`
	ThesisManagerTimeout  time.Duration `env:"THESIS_MANAGER_TIMEOUT" env-default:"30s"`

	// GitLab (reporter)
	GitLabURL     string        `env:"GITLAB_URL" env-default:"https://gitlab.com"`
	GitLabToken   string        `env:"GITLAB_TOKEN" env-default:""`
	GitLabTimeout time.Duration `env:"GITLAB_TIMEOUT" env-default:"30s"`

	// LLM (CSV extraction, AI reports)
	LLMAPIBase     string        `env:"LLM_API_BASE" env-default:"https://api.openai.com/v1"`
	LLMAPIKey      string        `env:"LLM_API_KEY" env-default:""`
	LLMModel       string        `env:"LLM_MODEL" env-default:"gpt-4o-mini"`
	LLMTemperature float64       `env:"LLM_TEMPERATURE" env-default:"0.1"`
	LLMMaxTokens   int           `env:"LLM_MAX_TOKENS" env-default:"4096"`
	LLMTimeout     time.Duration `env:"LLM_TIMEOUT" env-default:"60s"`

	// Import pipeline
	MatchThreshold      float64 `env:"MATCH_THRESHOLD" env-default:"0.8"`
	TitleMatchThreshold float64 `env:"TITLE_MATCH_THRESHOLD" env-default:"0.6"`
}
