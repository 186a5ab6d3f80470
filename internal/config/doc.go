// Package config loads the service configuration.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Process environment variables (highest priority)
//	2. A .env file in the working directory (never overrides the process env)
//	3. A YAML file: $MPI_CONFIG_FILE, config.yaml or configs/config.yaml
//	4. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern MPI_<SECTION>_<FIELD>:
//
//	MPI_SERVER_PORT=8080
//	MPI_DATA_DIR=/srv/mpi
//	MPI_LOGGING_LEVEL=debug
//	MPI_TELEMETRY_TRACE_EXPORTER=stdout
//
// DATAFILE is honoured as an alias of MPI_DATA_FILE.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Tests should start from config.Default().
package config
