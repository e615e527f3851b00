package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"moul.io/zapfilter"
)

// Logger is the process-wide structured logger. It starts out as a no-op
// logger so packages can log before InitProductionLogger/InitDevelopmentLogger
// runs (e.g. during flag parsing) without a nil deref.
var Logger = zap.NewNop()

// InitProductionLogger switches Logger to JSON output at info level.
func InitProductionLogger() {
	l, err := zap.NewProduction()
	if err != nil {
		return
	}
	Logger = l
}

// InitDevelopmentLogger switches Logger to human-readable, debug-level
// output suited to a terminal.
func InitDevelopmentLogger() {
	l, err := zap.NewDevelopment()
	if err != nil {
		return
	}
	Logger = l
}

// ApplyFilter restricts Logger to entries matching rule, e.g.
// "*:info,pkg/telemetry/*:debug". See moul.io/zapfilter for syntax.
func ApplyFilter(rule string) {
	filter := zapfilter.MustParseRules(rule)
	Logger = Logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapfilter.NewFilteringCore(core, filter)
	}))
}
