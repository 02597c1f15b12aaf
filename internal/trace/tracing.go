package trace

import (
	"fmt"
	"strings"
)

// TraceLevel is how much trace output compiled code keeps.
type TraceLevel uint8

const (
	// TraceSilent strips every trace.
	TraceSilent TraceLevel = iota
	// TraceCompact keeps trace labels only.
	TraceCompact
	// TraceVerbose keeps traces with their full messages.
	TraceVerbose
)

func (l TraceLevel) String() string {
	switch l {
	case TraceSilent:
		return "silent"
	case TraceCompact:
		return "compact"
	case TraceVerbose:
		return "verbose"
	default:
		return "unknown"
	}
}

// ParseTraceLevel converts a string to a TraceLevel.
func ParseTraceLevel(s string) (TraceLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silent":
		return TraceSilent, nil
	case "compact":
		return TraceCompact, nil
	case "verbose":
		return TraceVerbose, nil
	default:
		return TraceSilent, fmt.Errorf("invalid trace verbosity: %q (expected: silent|compact|verbose)", s)
	}
}

// Tracing selects trace levels separately for traces written by the user and
// traces the compiler inserts itself.
type Tracing struct {
	UserDefined       TraceLevel
	CompilerGenerated TraceLevel
}

// AllTraces applies one level to both trace sources.
func AllTraces(level TraceLevel) Tracing {
	return Tracing{UserDefined: level, CompilerGenerated: level}
}

// UserDefinedTraces keeps only the user's traces at level.
func UserDefinedTraces(level TraceLevel) Tracing {
	return Tracing{UserDefined: level, CompilerGenerated: TraceSilent}
}

// CompilerGeneratedTraces keeps only compiler traces at level.
func CompilerGeneratedTraces(level TraceLevel) Tracing {
	return Tracing{UserDefined: TraceSilent, CompilerGenerated: level}
}

// SilentTracing strips every trace.
func SilentTracing() Tracing {
	return AllTraces(TraceSilent)
}

// VerboseTracing returns AllTraces(TraceVerbose) when verbose is set and
// SilentTracing otherwise.
func VerboseTracing(verbose bool) Tracing {
	if verbose {
		return AllTraces(TraceVerbose)
	}
	return SilentTracing()
}

// ParseTracing builds Tracing from a filter (user-defined|compiler-generated|all)
// and a verbosity.
func ParseTracing(filter, verbosity string) (Tracing, error) {
	level, err := ParseTraceLevel(verbosity)
	if err != nil {
		return Tracing{}, err
	}
	switch strings.ToLower(strings.TrimSpace(filter)) {
	case "user-defined":
		return UserDefinedTraces(level), nil
	case "compiler-generated":
		return CompilerGeneratedTraces(level), nil
	case "all", "":
		return AllTraces(level), nil
	default:
		return Tracing{}, fmt.Errorf("invalid trace filter: %q (expected: user-defined|compiler-generated|all)", filter)
	}
}

// TraceLevel resolves the level for one consumer: code generation reads the
// compiler-generated level, everything else the user-defined one.
func (t Tracing) TraceLevel(codeGen bool) TraceLevel {
	if codeGen {
		return t.CompilerGenerated
	}
	return t.UserDefined
}
