// Package store persists runs under a base directory, one
// subdirectory per run holding metadata, the diagnostics series and
// field snapshots.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// RunMeta is the metadata.json payload of one run.
type RunMeta struct {
	ID         string    `json:"id"`
	Scenario   string    `json:"scenario"`
	Started    time.Time `json:"started"`
	Finished   time.Time `json:"finished"`
	Status     string    `json:"status"`
	Iterations int       `json:"iterations"`
	SimTime    float64   `json:"sim_time"`
	FinalDt    float64   `json:"final_dt"`
	Metric     float64   `json:"metric"`
	Tolerance  float64   `json:"tolerance"`
	Nx         int       `json:"nx"`
	Ny         int       `json:"ny"`
	Rayleigh   float64   `json:"rayleigh"`
	Budget     int       `json:"budget"`
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Begin creates the directory for a new run. The run id is the
// scenario name plus the start time, which also keeps List output in
// rough chronological order.
func (s *Store) Begin(scenario string) (*Run, error) {
	started := time.Now()
	id := fmt.Sprintf("%s_%d", scenario, started.Unix())
	dir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("store: creating run directory: %w", err)
	}
	return &Run{id: id, dir: dir, started: started}, nil
}

// List returns the metadata of every readable run, oldest first.
// Directories without readable metadata are skipped rather than
// failing the whole listing.
func (s *Store) List() ([]RunMeta, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []RunMeta
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Started.Before(runs[j].Started) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMeta, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, fmt.Errorf("store: reading metadata for %s: %w", runID, err)
	}
	var meta RunMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("store: parsing metadata for %s: %w", runID, err)
	}
	return &meta, nil
}

// Run is an open run directory.
type Run struct {
	id      string
	dir     string
	started time.Time
}

func (r *Run) ID() string  { return r.id }
func (r *Run) Dir() string { return r.dir }

func (r *Run) SeriesPath() string {
	return filepath.Join(r.dir, "series.csv")
}

// Finish stamps the metadata with the run identity and times and
// writes metadata.json. The caller fills the outcome fields.
func (r *Run) Finish(meta RunMeta) error {
	meta.ID = r.id
	meta.Started = r.started
	meta.Finished = time.Now()

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encoding metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(r.dir, "metadata.json"), data, 0644); err != nil {
		return fmt.Errorf("store: writing metadata: %w", err)
	}
	return nil
}
