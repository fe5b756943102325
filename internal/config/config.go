package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Study    StudyConfig    `mapstructure:"study" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// StudyConfig contains the default caps for SRS session assembly. Callers
// may pass lower limits per request; these bound a session when the client
// does not say otherwise.
type StudyConfig struct {
	DueLimit int `mapstructure:"due_limit" validate:"required,gt=0"`
	NewLimit int `mapstructure:"new_limit" validate:"required,gt=0"`
}
