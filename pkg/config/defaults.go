package config

// Lint defaults.
const (
	// DefaultConcurrency of zero selects runtime.NumCPU().
	DefaultConcurrency = 0
	DefaultMaxFileSize = "1MB"
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Telemetry defaults.
const (
	DefaultOTLPEndpoint = ""
	DefaultOTLPInsecure = false
	DefaultEnvironment  = ""
)

// Config file lookup.
const (
	FileName  = ".tsguard"
	EnvPrefix = "TSGUARD"
)
