package config

// Storage backends
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Trace exporters
const (
	TraceExporterNone   = "none"
	TraceExporterStdout = "stdout"
	TraceExporterOTLP   = "otlp"
)

// Error messages
const (
	ErrMsgParseEnv          = "parse env"
	ErrMsgMissingAPIKey     = "API_KEY environment variable must be set for security"
	ErrMsgInvalidPort       = "PORT must be between 1 and 65535"
	ErrMsgInvalidBackend    = "unknown storage backend"
	ErrMsgCooldownNeedsDB   = "COOLDOWN_BACKEND=postgres requires DB_BACKEND=postgres"
	ErrMsgInvalidWorkers    = "WORKER_COUNT and WORKER_QUEUE_SIZE must be positive"
	ErrMsgInvalidInterval   = "SWEEP_INTERVAL must be positive"
	ErrMsgInvalidCooldown   = "raid cooldowns cannot be negative"
	ErrMsgInvalidExporter   = "unknown TRACE_EXPORTER"
	ErrMsgMissingDiscordEnv = "missing required discord environment variables"
)
