// internal/records/extract.go
package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

const (
	tokensPerMillion = 1_000_000
	secondsPerHour   = 3600
)

// CostPerMillionTokens converts an hourly instance price and a measured
// throughput (tokens/sec) into dollars per million output tokens. A zero
// throughput yields +Inf; callers must check math.IsInf before aggregating.
func CostPerMillionTokens(pricePerHour, throughput float64) float64 {
	if throughput == 0 {
		return math.Inf(1)
	}
	return (pricePerHour * tokensPerMillion) / (throughput * secondsPerHour)
}

// ExtractAll extracts one Group per input directory, in argument order.
// Inputs that contribute nothing still get an (empty) Group.
func ExtractAll(dirs []string, opts Options) ([]Group, []Diagnostic) {
	labels := Labels(dirs)
	groups := make([]Group, 0, len(dirs))
	var diags []Diagnostic
	for i, dir := range dirs {
		recs, d := ExtractDir(dir, labels[i], opts)
		groups = append(groups, Group{Label: labels[i], Dir: dir, Records: recs})
		diags = append(diags, d...)
	}
	return groups, diags
}

// ExtractDir reads every *.json file (case-insensitive suffix) directly inside
// dir, in lexical filename order, and returns a Record for each file that
// reports both throughput and request_rate. Problems are returned as
// diagnostics; none of them abort the scan.
func ExtractDir(dir, label string, opts Options) ([]Record, []Diagnostic) {
	var diags []Diagnostic
	report := func(sev Severity, file, format string, args ...any) {
		diags = append(diags, Diagnostic{Severity: sev, Source: label, File: file, Message: fmt.Sprintf(format, args...)})
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		report(SeverityError, "", "the provided path '%s' is not a valid directory", dir)
		return nil, diags
	}
	report(SeverityInfo, "", "scanning folder %s", dir)

	// os.ReadDir returns entries sorted by filename.
	entries, err := os.ReadDir(dir)
	if err != nil {
		report(SeverityError, "", "unable to read directory %s: %v", dir, err)
		return nil, diags
	}

	var out []Record
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(name), ".json") {
			continue
		}
		path := filepath.Join(dir, name)

		raw, err := os.ReadFile(path)
		if err != nil {
			report(SeverityError, name, "error reading %s: %v", path, err)
			continue
		}
		metrics, err := parseMetrics(raw)
		if err != nil {
			report(SeverityError, name, "error parsing %s: %v", path, err)
			continue
		}

		fields := make(map[string]*float64, 4)
		for _, key := range []string{KeyThroughput, KeyRequestRate, KeyLatency, KeyNormalizedLatency} {
			v, err := numberField(metrics, key)
			if err != nil {
				report(SeverityWarn, name, "ignoring '%s': %v", key, err)
			}
			fields[key] = v
		}

		throughput, requestRate := fields[KeyThroughput], fields[KeyRequestRate]
		if throughput == nil || requestRate == nil {
			var missing []string
			if throughput == nil {
				missing = append(missing, "'"+KeyThroughput+"'")
			}
			if requestRate == nil {
				missing = append(missing, "'"+KeyRequestRate+"'")
			}
			report(SeverityWarn, name, "missing core metric(s) (%s); skipping this file for plots", strings.Join(missing, ", "))
			continue
		}

		rec := Record{
			Source:            label,
			Filename:          name,
			Throughput:        *throughput,
			RequestRate:       *requestRate,
			Latency:           fields[KeyLatency],
			NormalizedLatency: fields[KeyNormalizedLatency],
		}
		if opts.PricePerHour != nil {
			if rec.Throughput >= 0 {
				cost := CostPerMillionTokens(*opts.PricePerHour, rec.Throughput)
				rec.CostPerMillionTokens = &cost
			} else {
				report(SeverityInfo, name, "negative throughput %v; cost per million tokens not derived", rec.Throughput)
			}
		}
		out = append(out, rec)

		report(SeverityInfo, name, "successfully parsed common metrics")
		if rec.Latency == nil {
			report(SeverityInfo, name, "note: '%s' not found", KeyLatency)
		}
		if rec.NormalizedLatency == nil {
			report(SeverityInfo, name, "note: '%s' not found", KeyNormalizedLatency)
		}
	}
	return out, diags
}

// parseMetrics decodes a result document and returns its "metrics" object.
// A missing or null "metrics" value yields an empty map.
func parseMetrics(raw []byte) (map[string]json.RawMessage, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("top-level JSON value is not an object")
	}

	metricsRaw, ok := doc["metrics"]
	if !ok || isNull(metricsRaw) {
		return map[string]json.RawMessage{}, nil
	}
	var metrics map[string]json.RawMessage
	if err := json.Unmarshal(metricsRaw, &metrics); err != nil {
		return nil, fmt.Errorf("'metrics' is not an object: %w", err)
	}
	if metrics == nil {
		metrics = map[string]json.RawMessage{}
	}
	return metrics, nil
}

// numberField returns nil for absent or null keys. A present value that is
// not a JSON number is reported and treated as absent.
func numberField(metrics map[string]json.RawMessage, key string) (*float64, error) {
	raw, ok := metrics[key]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("value %s is not a number", strings.TrimSpace(string(raw)))
	}
	return &v, nil
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

// Labels derives a unique, human-readable label for each input directory.
// The base name is used unless two inputs share it, in which case the cleaned
// path is used; exact duplicates get a "#n" suffix.
func Labels(dirs []string) []string {
	bases := make([]string, len(dirs))
	cleaned := make([]string, len(dirs))
	baseCount := make(map[string]int, len(dirs))
	for i, dir := range dirs {
		clean := filepath.Clean(dir)
		base := filepath.Base(clean)
		if base == "." || base == string(filepath.Separator) {
			if abs, err := filepath.Abs(clean); err == nil {
				base = filepath.Base(abs)
			}
		}
		cleaned[i] = clean
		bases[i] = base
		baseCount[base]++
	}

	labels := make([]string, len(dirs))
	taken := make(map[string]bool, len(dirs))
	next := make(map[string]int, len(dirs))
	for i := range dirs {
		label := bases[i]
		if baseCount[label] > 1 {
			label = cleaned[i]
		}
		if taken[label] {
			// A suffixed label may itself be a real directory name.
			n := next[label]
			if n < 2 {
				n = 2
			}
			candidate := fmt.Sprintf("%s#%d", label, n)
			for taken[candidate] {
				n++
				candidate = fmt.Sprintf("%s#%d", label, n)
			}
			next[label] = n + 1
			label = candidate
		}
		taken[label] = true
		labels[i] = label
	}
	return labels
}
