package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readability
var (
	ListenAddr            string // address the UDP telemetry socket binds to
	HTTPAddr              string // address for a model-observer HTTP endpoint; no command sets or reads it
	NameMappingFile       string // path to the YAML driver name-mapping file
	PitSpeedingServeDelay string // duration string; see session.WithPitSpeedingServeDelay
	LogLevel              string // log level name from --logLevel; the serve command does not read it
	LogFormat             string // text vs json
	LogFilter             string // zapfilter rule string; no flag sets it and nothing applies it
	EnableTelemetry       bool   // OpenTelemetry metrics export switch; no command sets or reads it
	TelemetryEndpoint     string // endpoint for telemetry export; no command sets or reads it
	PrintDatagrams        bool   // if true, each ingested datagram is logged at debug level
)

// Config groups configuration values; nothing in the application builds or reads it.
type Config struct {
	PrintDatagrams bool
}
