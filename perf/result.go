// Package perf: measurement records and their export formats.

package perf

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// csvHeader is the fixed column layout of CSV exports. Consumers key on
// these names; never reorder.
const csvHeader = "Matcher, Rows, Columns, Execution Time (s), Memory Usage (MB), Solution Quality, Constraint Violations, Cache Hits, Iterations, Timestamp"

// Result is one benchmark measurement: a matcher run against one matrix
// shape, averaged over the configured iteration count.
type Result struct {
	SessionID     string    `json:"session_id"`
	Matcher       string    `json:"matcher"`
	Rows          int       `json:"rows"`
	Columns       int       `json:"columns"`
	ExecutionTime float64   `json:"execution_time_seconds"`
	MemoryMB      float64   `json:"memory_usage_mb"`
	Quality       float64   `json:"solution_quality"`
	Violations    int       `json:"constraint_violations"`
	CacheHits     uint64    `json:"cache_hits"`
	Iterations    int       `json:"iterations"`
	Timestamp     time.Time `json:"timestamp"`
}

// record renders one CSV row in header order.
func (r Result) record() []string {
	return []string{
		r.Matcher,
		strconv.Itoa(r.Rows),
		strconv.Itoa(r.Columns),
		strconv.FormatFloat(r.ExecutionTime, 'f', 6, 64),
		strconv.FormatFloat(r.MemoryMB, 'f', 3, 64),
		strconv.FormatFloat(r.Quality, 'f', 6, 64),
		strconv.Itoa(r.Violations),
		strconv.FormatUint(r.CacheHits, 10),
		strconv.Itoa(r.Iterations),
		r.Timestamp.Format(time.RFC3339Nano),
	}
}

// exportJSON marshals results with indentation for human inspection.
func exportJSON(results []Result) ([]byte, error) {
	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("perf: marshal results: %w", err)
	}

	return out, nil
}

// exportCSV renders the fixed header followed by one row per result.
func exportCSV(results []Result) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(csvHeader)
	buf.WriteByte('\n')

	w := csv.NewWriter(&buf)
	for _, r := range results {
		if err := w.Write(r.record()); err != nil {
			return nil, fmt.Errorf("perf: write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("perf: flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

// save writes rendered bytes to path (0644).
func save(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("perf: save %s: %w", path, err)
	}

	return nil
}
