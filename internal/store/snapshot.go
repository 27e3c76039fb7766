package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/geodyn/convect/internal/field"
)

// SnapshotWriter dumps the temperature grid to one CSV file per
// snapshot, named snapshot_NNNNNN.csv by iteration. Row order matches
// the field layout: the first row is the bottom boundary.
type SnapshotWriter struct {
	dir  string
	temp *field.Scalar
}

// Snapshots returns a writer satisfying the loop's Writer contract.
func (r *Run) Snapshots(temp *field.Scalar) *SnapshotWriter {
	return &SnapshotWriter{dir: r.dir, temp: temp}
}

func (w *SnapshotWriter) WriteSnapshot(iter int, t float64) error {
	path := filepath.Join(w.dir, fmt.Sprintf("snapshot_%06d.csv", iter))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("store: creating snapshot: %w", err)
	}
	cw := csv.NewWriter(f)

	ny, nx := w.temp.Grid().Shape()
	row := make([]string, nx)
	for r := 0; r < ny; r++ {
		for c := 0; c < nx; c++ {
			row[c] = strconv.FormatFloat(w.temp.At(r, c), 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("store: writing snapshot: %w", err)
		}
	}

	cw.Flush()
	err = cw.Error()
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Close is a no-op; each snapshot file is closed as it is written.
func (w *SnapshotWriter) Close() error { return nil }
