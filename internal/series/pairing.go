package series

import "github.com/mwiater/benchviz/internal/records"

// Field selects one metric of a record.
type Field int

const (
	FieldThroughput Field = iota
	FieldRequestRate
	FieldLatency
	FieldNormalizedLatency
	FieldCostPerMillionTokens
)

// Value returns the selected metric and whether the record reports it.
func (f Field) Value(r records.Record) (float64, bool) {
	switch f {
	case FieldThroughput:
		return r.Throughput, true
	case FieldRequestRate:
		return r.RequestRate, true
	case FieldLatency:
		return deref(r.Latency)
	case FieldNormalizedLatency:
		return deref(r.NormalizedLatency)
	case FieldCostPerMillionTokens:
		return deref(r.CostPerMillionTokens)
	default:
		return 0, false
	}
}

func (f Field) String() string {
	switch f {
	case FieldThroughput:
		return "throughput"
	case FieldRequestRate:
		return "request_rate"
	case FieldLatency:
		return "latency"
	case FieldNormalizedLatency:
		return "normalized_latency"
	case FieldCostPerMillionTokens:
		return "cost_per_million_tokens"
	default:
		return "unknown"
	}
}

func deref(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

// Pairing is one of the fixed chart definitions.
type Pairing struct {
	Name          string
	Title         string
	X             Field
	Y             Field
	XLabel        string
	YLabel        string
	FileBase      string
	RequiresPrice bool
}

var (
	ThroughputVsLatency = Pairing{
		Name:     "latency",
		Title:    "Throughput vs. Per Token Latency",
		X:        FieldLatency,
		Y:        FieldThroughput,
		XLabel:   "Average Per Token Latency (ms)",
		YLabel:   "Throughput (output tokens/sec)",
		FileBase: "throughput_vs_latency",
	}
	ThroughputVsNormalizedLatency = Pairing{
		Name:     "normalized_latency",
		Title:    "Throughput vs. Normalized Per Token Latency",
		X:        FieldNormalizedLatency,
		Y:        FieldThroughput,
		XLabel:   "Average Normalized Time Per Output Token (ms)",
		YLabel:   "Throughput (output tokens/sec)",
		FileBase: "throughput_vs_normalized_latency",
	}
	CostVsNormalizedLatency = Pairing{
		Name:          "cost",
		Title:         "Cost per Million Output Tokens vs. Normalized Latency",
		X:             FieldNormalizedLatency,
		Y:             FieldCostPerMillionTokens,
		XLabel:        "Average Normalized Time Per Output Token (ms)",
		YLabel:        "$ per Million Output Tokens",
		FileBase:      "cost_vs_normalized_latency",
		RequiresPrice: true,
	}
)

// All lists every pairing in chart order.
var All = []Pairing{ThroughputVsLatency, ThroughputVsNormalizedLatency, CostVsNormalizedLatency}

// Pairings returns the pairings to chart for a run. The cost pairing is only
// included when an instance price was supplied.
func Pairings(priceSupplied bool) []Pairing {
	out := make([]Pairing, 0, len(All))
	for _, p := range All {
		if p.RequiresPrice && !priceSupplied {
			continue
		}
		out = append(out, p)
	}
	return out
}
