// Package export writes optimization results to CSV files for offline
// analysis.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hubnet/internal/cost"
	"hubnet/internal/opt"
)

// RunRow is one exported row: a single strategy's outcome on a dataset.
type RunRow struct {
	Dataset   string
	Algorithm string
	Params    string
	Before    cost.Breakdown
	After     cost.Breakdown
	Result    opt.Result
	Elapsed   time.Duration
}

// Exporter writes timestamped CSV files under Dir.
type Exporter struct {
	Dir string
}

func NewExporter(dir string) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Exporter{Dir: dir}, nil
}

// WriteRun exports a single run. Returns the path written.
func (e *Exporter) WriteRun(row RunRow) (string, error) {
	name := fmt.Sprintf("%s_%s_%s.csv", row.Dataset, row.Algorithm, time.Now().Format("20060102_150405"))
	return e.write(name, []RunRow{row})
}

// WriteComparison exports one row per strategy run against the same dataset.
func (e *Exporter) WriteComparison(dataset string, rows []RunRow) (string, error) {
	name := fmt.Sprintf("%s_comparison_%s.csv", dataset, time.Now().Format("20060102_150405"))
	return e.write(name, rows)
}

func (e *Exporter) write(name string, rows []RunRow) (string, error) {
	path := filepath.Join(e.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	cw := csv.NewWriter(f)
	header := []string{
		"dataset", "algorithm", "params",
		"initial_total", "final_total", "improvement", "improvement_pct", "passes",
		"fixed_before", "processing_before", "transport_bulk_before", "transport_local_before",
		"fixed_after", "processing_after", "transport_bulk_after", "transport_local_after",
		"elapsed_ms",
	}
	if err := cw.Write(header); err != nil {
		return "", err
	}
	for _, r := range rows {
		rec := []string{
			r.Dataset, r.Algorithm, r.Params,
			f2s(r.Result.InitialCost), f2s(r.Result.FinalCost), f2s(r.Result.Improvement), f2s(r.Result.ImprovementPct), fmt.Sprintf("%d", r.Result.Passes),
			f2s(r.Before.Fixed), f2s(r.Before.Processing), f2s(r.Before.TransportSourceToHub), f2s(r.Before.TransportHubToDemand),
			f2s(r.After.Fixed), f2s(r.After.Processing), f2s(r.After.TransportSourceToHub), f2s(r.After.TransportHubToDemand),
			fmt.Sprintf("%d", r.Elapsed.Milliseconds()),
		}
		if err := cw.Write(rec); err != nil {
			return "", err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", err
	}
	return path, nil
}

func f2s(v float64) string { return fmt.Sprintf("%.2f", v) }
