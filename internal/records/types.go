// internal/records/types.go
// Package records extracts benchmark records from directories of JSON
// result files.
package records

import "fmt"

// Metric keys read from the "metrics" object of each result file.
const (
	KeyThroughput        = "throughput"
	KeyRequestRate       = "request_rate"
	KeyLatency           = "avg_per_token_latency_ms"
	KeyNormalizedLatency = "avg_normalized_time_per_output_token_ms"
)

// Record is one parsed benchmark result. Optional metrics are nil when the
// source file did not report them.
type Record struct {
	Source               string
	Filename             string
	Throughput           float64
	RequestRate          float64
	Latency              *float64
	NormalizedLatency    *float64
	CostPerMillionTokens *float64
}

// Group holds the records extracted from a single input directory.
type Group struct {
	Label   string
	Dir     string
	Records []Record
}

// Options controls extraction.
type Options struct {
	// PricePerHour enables the cost metric when non-nil.
	PricePerHour *float64
}

// Severity classifies a Diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Diagnostic is a non-fatal extraction event. File is empty for
// directory-level events.
type Diagnostic struct {
	Severity Severity
	Source   string
	File     string
	Message  string
}

func (d Diagnostic) String() string {
	if d.File == "" {
		return fmt.Sprintf("%s: %s", d.Source, d.Message)
	}
	return fmt.Sprintf("%s/%s: %s", d.Source, d.File, d.Message)
}
