// Package store persists run traces and scores under a data directory:
// one directory per run holding metadata.json and trace.csv.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"suspensim/internal/metrics"
	"suspensim/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Profile    string             `json:"profile"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Integrator string             `json:"integrator"`
	Controller string             `json:"controller"`
	Steps      int                `json:"steps"`
	Score      float64            `json:"score"`
	Components map[string]float64 `json:"components"`
	Metrics    map[string]float64 `json:"metrics"`
}

var traceHeader = []string{"time", "zs", "accel", "accel_filtered", "coefficient", "force", "jerk"}

func (s *Store) Save(profile string, dt float64, integrator, controller string, result *sim.Result, score metrics.Score) (string, error) {
	runID := fmt.Sprintf("%s_%d", profile, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Profile:    profile,
		Timestamp:  time.Now(),
		Dt:         dt,
		Integrator: integrator,
		Controller: controller,
		Steps:      len(result.Records),
		Score:      score.Total,
		Components: score.Components,
		Metrics:    result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "trace.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(traceHeader); err != nil {
		return "", err
	}
	for _, rec := range result.Records {
		row := []string{
			strconv.FormatFloat(rec.T, 'f', 6, 64),
			strconv.FormatFloat(rec.SprungDisp, 'g', -1, 64),
			strconv.FormatFloat(rec.SprungAccel, 'g', -1, 64),
			strconv.FormatFloat(rec.FilteredAccel, 'g', -1, 64),
			strconv.FormatFloat(rec.Coefficient, 'g', -1, 64),
			strconv.FormatFloat(rec.Force, 'g', -1, 64),
			strconv.FormatFloat(rec.Jerk, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTrace(runID string) ([]sim.StepRecord, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "trace.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.StepRecord{}, nil
	}

	out := make([]sim.StepRecord, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		row := records[i]
		if len(row) < len(traceHeader) {
			return nil, fmt.Errorf("store: %s trace row %d has %d fields, want %d",
				runID, i, len(row), len(traceHeader))
		}

		vals := make([]float64, len(traceHeader))
		for j := range vals {
			v, err := strconv.ParseFloat(row[j], 64)
			if err != nil {
				return nil, fmt.Errorf("store: %s trace row %d: %w", runID, i, err)
			}
			vals[j] = v
		}

		out = append(out, sim.StepRecord{
			T:             vals[0],
			SprungDisp:    vals[1],
			SprungAccel:   vals[2],
			FilteredAccel: vals[3],
			Coefficient:   vals[4],
			Force:         vals[5],
			Jerk:          vals[6],
		})
	}

	return out, nil
}
