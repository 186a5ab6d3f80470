package config

import "mpidash/pkg/contracts"

// Application constants
const (
	AppName    = "MPI Dashboard"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable, e.g. MPI_SERVER_PORT.
	EnvPrefix = "MPI"

	// DataFileEnv overrides Data.File without the prefix.
	DataFileEnv = "DATAFILE"

	// ConfigFileEnv points at an explicit YAML config file.
	ConfigFileEnv = "MPI_CONFIG_FILE"

	DefaultDotEnvFile = ".env"
	DefaultDataDir    = "data"
	DefaultExportDir  = "exports"
	DefaultLogFile    = "logs/app.log"

	APIBasePath       = "/api"
	DashboardEndpoint = "/api/dashboard"
	HealthEndpoint    = "/api/health"
	MetricsEndpoint   = "/metrics"
)
