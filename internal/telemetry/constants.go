package telemetry

// Exporter names
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// AttrDeploymentEnvironment tags spans with the environment name
const AttrDeploymentEnvironment = "deployment.environment"

const (
	ErrMsgCreateExporter  = "failed to create span exporter"
	ErrMsgCreateResource  = "failed to create trace resource"
	ErrMsgUnknownExporter = "unknown trace exporter"

	LogMsgTracingInitialized = "Tracing initialized"
)
