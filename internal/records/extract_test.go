package records

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func ptr(v float64) *float64 { return &v }

func messages(diags []Diagnostic, sev Severity) []string {
	var out []string
	for _, d := range diags {
		if d.Severity == sev {
			out = append(out, d.String())
		}
	}
	return out
}

func TestExtractDirThreeFileScenario(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.json": `{"metrics":{"throughput":100,"request_rate":5,"avg_per_token_latency_ms":20}}`,
		"b.json": `{"metrics":{"throughput":150,"request_rate":10}}`,
		"c.json": `{"metrics":{"throughput":80}}`,
	})

	recs, diags := ExtractDir(dir, "run", Options{})
	require.Len(t, recs, 2)
	assert.Equal(t, "a.json", recs[0].Filename)
	assert.Equal(t, "b.json", recs[1].Filename)
	assert.Equal(t, 100.0, recs[0].Throughput)
	assert.Equal(t, 5.0, recs[0].RequestRate)
	require.NotNil(t, recs[0].Latency)
	assert.Equal(t, 20.0, *recs[0].Latency)
	assert.Nil(t, recs[0].NormalizedLatency)
	assert.Nil(t, recs[1].Latency)
	assert.Nil(t, recs[0].CostPerMillionTokens, "cost must be absent without a price")
	assert.Equal(t, "run", recs[1].Source)

	warns := messages(diags, SeverityWarn)
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0], "c.json")
	assert.Contains(t, warns[0], "'request_rate'")
	assert.NotContains(t, warns[0], "'throughput'")
}

func TestExtractDirRequiredFieldsOnly(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"both.json":         `{"metrics":{"throughput":1,"request_rate":2}}`,
		"null-rate.json":    `{"metrics":{"throughput":1,"request_rate":null}}`,
		"no-metrics.json":   `{"other":{"throughput":1,"request_rate":2}}`,
		"null-metrics.json": `{"metrics":null}`,
		"zero.json":         `{"metrics":{"throughput":0,"request_rate":0}}`,
		"extra.json":        `{"run_id":"x","metrics":{"throughput":3,"request_rate":4,"avg_per_token_latency_ms":null,"avg_normalized_time_per_output_token_ms":7}}`,
	})

	recs, diags := ExtractDir(dir, "d", Options{})
	var names []string
	for _, r := range recs {
		names = append(names, r.Filename)
	}
	assert.Equal(t, []string{"both.json", "extra.json", "zero.json"}, names)
	assert.Nil(t, recs[1].Latency)
	require.NotNil(t, recs[1].NormalizedLatency)
	assert.Equal(t, 7.0, *recs[1].NormalizedLatency)

	warns := strings.Join(messages(diags, SeverityWarn), "\n")
	assert.Contains(t, warns, "no-metrics.json: missing core metric(s) ('throughput', 'request_rate')")
	assert.Contains(t, warns, "null-rate.json: missing core metric(s) ('request_rate')")
	assert.Empty(t, messages(diags, SeverityError))
}

func TestExtractDirSkipsMalformedAndNonJSON(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"good.JSON":      `{"metrics":{"throughput":10,"request_rate":1}}`,
		"broken.json":    `{"metrics":`,
		"array.json":     `[1,2,3]`,
		"string.json":    `{"metrics":{"throughput":"fast","request_rate":1}}`,
		"bad-obj.json":   `{"metrics":[1]}`,
		"notes.txt":      `{"metrics":{"throughput":10,"request_rate":1}}`,
		"report.json.gz": `not json`,
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0o755))

	recs, diags := ExtractDir(dir, "d", Options{})
	require.Len(t, recs, 1)
	assert.Equal(t, "good.JSON", recs[0].Filename)

	errs := strings.Join(messages(diags, SeverityError), "\n")
	assert.Contains(t, errs, "broken.json")
	assert.Contains(t, errs, "array.json")
	assert.Contains(t, errs, "bad-obj.json")
	assert.NotContains(t, errs, "notes.txt")
	assert.NotContains(t, errs, "nested.json")

	warns := strings.Join(messages(diags, SeverityWarn), "\n")
	assert.Contains(t, warns, `string.json: ignoring 'throughput': value "fast" is not a number`)
	assert.Contains(t, warns, "string.json: missing core metric(s) ('throughput')")
}

func TestExtractDirNotADirectory(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.json": `{}`})
	file := filepath.Join(dir, "a.json")

	for _, path := range []string{file, filepath.Join(dir, "missing")} {
		recs, diags := ExtractDir(path, "x", Options{})
		assert.Empty(t, recs)
		require.Len(t, diags, 1)
		assert.Equal(t, SeverityError, diags[0].Severity)
		assert.Contains(t, diags[0].Message, "is not a valid directory")
	}
}

func TestExtractDirCost(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.json": `{"metrics":{"throughput":1000,"request_rate":1}}`,
		"b.json": `{"metrics":{"throughput":0,"request_rate":1}}`,
		"c.json": `{"metrics":{"throughput":-5,"request_rate":1}}`,
	})

	recs, diags := ExtractDir(dir, "d", Options{PricePerHour: ptr(3.60)})
	require.Len(t, recs, 3)
	require.NotNil(t, recs[0].CostPerMillionTokens)
	assert.InDelta(t, 1.0, *recs[0].CostPerMillionTokens, 1e-12)
	require.NotNil(t, recs[1].CostPerMillionTokens)
	assert.True(t, math.IsInf(*recs[1].CostPerMillionTokens, 1))
	assert.Nil(t, recs[2].CostPerMillionTokens)
	assert.Contains(t, strings.Join(messages(diags, SeverityInfo), "\n"), "negative throughput")
}

func TestCostPerMillionTokens(t *testing.T) {
	cases := []struct {
		price, throughput, want float64
	}{
		{3.60, 1000, 1.0},
		{2.50, 500, 2.50 * 1_000_000 / (500 * 3600)},
		{0, 10, 0},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, CostPerMillionTokens(tc.price, tc.throughput), 1e-12)
	}
	assert.True(t, math.IsInf(CostPerMillionTokens(3.60, 0), 1))
	assert.True(t, math.IsInf(CostPerMillionTokens(0, 0), 1))
}

func TestRecordCountNeverExceedsFileCount(t *testing.T) {
	files := map[string]string{
		"1.json": `{"metrics":{"throughput":1,"request_rate":1}}`,
		"2.json": `{"metrics":{"request_rate":1}}`,
		"3.json": `oops`,
		"4.json": `{"metrics":{"throughput":4,"request_rate":2,"avg_per_token_latency_ms":3}}`,
	}
	recs, _ := ExtractDir(writeFiles(t, files), "d", Options{})
	assert.Len(t, recs, 2)
	assert.LessOrEqual(t, len(recs), len(files))

	valid := map[string]string{
		"1.json": files["1.json"],
		"4.json": files["4.json"],
	}
	recs, _ = ExtractDir(writeFiles(t, valid), "d", Options{})
	assert.Len(t, recs, len(valid))
}

func TestExtractAllKeepsEmptyGroups(t *testing.T) {
	good := writeFiles(t, map[string]string{"a.json": `{"metrics":{"throughput":1,"request_rate":1}}`})
	empty := t.TempDir()

	groups, diags := ExtractAll([]string{good, empty, filepath.Join(empty, "nope")}, Options{})
	require.Len(t, groups, 3)
	assert.Len(t, groups[0].Records, 1)
	assert.Empty(t, groups[1].Records)
	assert.Empty(t, groups[2].Records)
	assert.Equal(t, groups[0].Label, groups[0].Records[0].Source)
	assert.Len(t, messages(diags, SeverityError), 1)
}

func TestLabels(t *testing.T) {
	got := Labels([]string{"runs/a100", "runs/h100/", "old/a100", "runs/h100"})
	assert.Equal(t, []string{"runs/a100", "runs/h100", "old/a100", "runs/h100#2"}, got)

	assert.Equal(t, []string{"a100", "h100"}, Labels([]string{"runs/a100", "runs/h100"}))

	assert.Equal(t, []string{"a", "a#2", "a#2#2"}, Labels([]string{"a", "a", "a#2"}))
	assert.Equal(t, []string{"a#2", "a", "a#3"}, Labels([]string{"a#2", "a", "a"}))

	abs, err := filepath.Abs(".")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Base(abs)}, Labels([]string{"."}))
}
