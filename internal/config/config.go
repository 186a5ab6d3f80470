package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"20s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8050"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"50"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"25"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// DataConfig locates the project dataset and export directory.
type DataConfig struct {
	Dir            string   `yaml:"dir" envconfig:"DIR" default:"data"`
	File           string   `yaml:"file" envconfig:"FILE"`
	PreferredFiles []string `yaml:"preferred_files" envconfig:"PREFERRED_FILES" default:"mpi_2024_scored.xlsx,sample_mpi.xlsx"`
	ExportDir      string   `yaml:"export_dir" envconfig:"EXPORT_DIR" default:"exports"`
}

// TelemetryConfig selects trace and metric exporters.
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME" default:"mpi-dashboard"`
	Environment    string `yaml:"environment" envconfig:"ENVIRONMENT" default:"development"`
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none"`
	MetricExporter string `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" default:"prometheus"`
}

// Load loads configuration from the environment, an optional .env file and
// an optional YAML file.
func Load() (*Config, error) {
	if err := loadDotEnv(DefaultDotEnvFile); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", DefaultDotEnvFile, err)
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if v := os.Getenv(DataFileEnv); v != "" {
		cfg.Data.File = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// loadDotEnv reads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is fine.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envSet reports whether MPI_<key> is present in the environment.
func envSet(key string) bool {
	_, ok := os.LookupEnv(EnvPrefix + "_" + key)
	return ok
}

// mergeConfigs lays file values over env defaults; explicitly set env
// variables still win.
func mergeConfigs(file, env Config) Config {
	out := env
	take := func(key string, fileHasValue bool, apply func()) {
		if fileHasValue && !envSet(key) {
			apply()
		}
	}

	take("SERVER_PORT", file.Server.Port != 0, func() { out.Server.Port = file.Server.Port })
	take("SERVER_READ_TIMEOUT", file.Server.ReadTimeout != 0, func() { out.Server.ReadTimeout = file.Server.ReadTimeout })
	take("SERVER_WRITE_TIMEOUT", file.Server.WriteTimeout != 0, func() { out.Server.WriteTimeout = file.Server.WriteTimeout })
	take("SERVER_IDLE_TIMEOUT", file.Server.IdleTimeout != 0, func() { out.Server.IdleTimeout = file.Server.IdleTimeout })
	take("SERVER_REQUEST_TIMEOUT", file.Server.RequestTimeout != 0, func() { out.Server.RequestTimeout = file.Server.RequestTimeout })
	take("SERVER_SHUTDOWN_TIMEOUT", file.Server.ShutdownTimeout != 0, func() { out.Server.ShutdownTimeout = file.Server.ShutdownTimeout })

	take("SECURITY_ALLOWED_ORIGINS", len(file.Security.AllowedOrigins) > 0, func() { out.Security.AllowedOrigins = file.Security.AllowedOrigins })
	take("SECURITY_RATE_LIMIT_RPS", file.Security.RateLimit.RPS != 0, func() { out.Security.RateLimit.RPS = file.Security.RateLimit.RPS })
	take("SECURITY_RATE_LIMIT_BURST", file.Security.RateLimit.Burst != 0, func() { out.Security.RateLimit.Burst = file.Security.RateLimit.Burst })

	take("LOGGING_LEVEL", file.Logging.Level != "", func() { out.Logging.Level = file.Logging.Level })
	take("LOGGING_OUTPUT", file.Logging.Output != "", func() { out.Logging.Output = file.Logging.Output })
	take("LOGGING_FILE_PATH", file.Logging.FilePath != "", func() { out.Logging.FilePath = file.Logging.FilePath })

	take("DATA_DIR", file.Data.Dir != "", func() { out.Data.Dir = file.Data.Dir })
	take("DATA_FILE", file.Data.File != "", func() { out.Data.File = file.Data.File })
	take("DATA_PREFERRED_FILES", len(file.Data.PreferredFiles) > 0, func() { out.Data.PreferredFiles = file.Data.PreferredFiles })
	take("DATA_EXPORT_DIR", file.Data.ExportDir != "", func() { out.Data.ExportDir = file.Data.ExportDir })

	take("TELEMETRY_SERVICE_NAME", file.Telemetry.ServiceName != "", func() { out.Telemetry.ServiceName = file.Telemetry.ServiceName })
	take("TELEMETRY_ENVIRONMENT", file.Telemetry.Environment != "", func() { out.Telemetry.Environment = file.Telemetry.Environment })
	take("TELEMETRY_TRACE_EXPORTER", file.Telemetry.TraceExporter != "", func() { out.Telemetry.TraceExporter = file.Telemetry.TraceExporter })
	take("TELEMETRY_METRIC_EXPORTER", file.Telemetry.MetricExporter != "", func() { out.Telemetry.MetricExporter = file.Telemetry.MetricExporter })

	return out
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server request timeout must be positive")
	}
	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}
	if c.Security.RateLimit.Enabled && (c.Security.RateLimit.RPS <= 0 || c.Security.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output %q", c.Logging.Output)
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	if c.Data.Dir == "" {
		return fmt.Errorf("data directory must be specified")
	}
	if c.Data.ExportDir == "" {
		c.Data.ExportDir = DefaultExportDir
	}

	switch c.Telemetry.TraceExporter {
	case "stdout", "none":
	default:
		return fmt.Errorf("invalid trace exporter %q", c.Telemetry.TraceExporter)
	}
	switch c.Telemetry.MetricExporter {
	case "prometheus", "none":
	default:
		return fmt.Errorf("invalid metric exporter %q", c.Telemetry.MetricExporter)
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if p := os.Getenv(ConfigFileEnv); p != "" {
		return p
	}
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			RequestTimeout:  20 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8050"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   25,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Data: DataConfig{
			Dir:            DefaultDataDir,
			PreferredFiles: []string{"mpi_2024_scored.xlsx", "sample_mpi.xlsx"},
			ExportDir:      DefaultExportDir,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "mpi-dashboard",
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
		},
	}
}
