package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Series is the parsed diagnostics log of one run, column addressable
// by header name.
type Series struct {
	Columns []string
	data    map[string][]float64
}

// LoadSeries reads and parses series.csv for a run. Rows with the
// wrong width or unparseable cells are skipped whole, which is how a
// trailing partial row from an interrupted run should be treated.
func (s *Store) LoadSeries(runID string) (*Series, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, fmt.Errorf("store: opening series for %s: %w", runID, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("store: reading series for %s: %w", runID, err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("store: series for %s is empty", runID)
	}

	header := records[0]
	sr := &Series{
		Columns: header,
		data:    make(map[string][]float64, len(header)),
	}

rows:
	for _, rec := range records[1:] {
		if len(rec) != len(header) {
			continue
		}
		vals := make([]float64, len(rec))
		for i, cell := range rec {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				continue rows
			}
			vals[i] = v
		}
		for i, name := range header {
			sr.data[name] = append(sr.data[name], vals[i])
		}
	}
	return sr, nil
}

// Column returns the named column, or nil when the series does not
// carry it.
func (sr *Series) Column(name string) []float64 {
	return sr.data[name]
}

// Len is the number of parsed rows.
func (sr *Series) Len() int {
	for _, col := range sr.data {
		return len(col)
	}
	return 0
}
