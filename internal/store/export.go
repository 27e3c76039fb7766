package store

import (
	"encoding/json"
	"io"
)

// ExportData is the machine readable bundle of one run: its metadata
// plus the full diagnostics series keyed by column name.
type ExportData struct {
	RunMeta
	Columns []string             `json:"columns"`
	Series  map[string][]float64 `json:"series"`
}

// ExportJSON writes the bundle as indented JSON, typically to stdout
// for piping into other tools.
func ExportJSON(w io.Writer, meta *RunMeta, series *Series) error {
	data := ExportData{
		RunMeta: *meta,
		Columns: series.Columns,
		Series:  make(map[string][]float64, len(series.Columns)),
	}
	for _, name := range series.Columns {
		data.Series[name] = series.Column(name)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
