// Package store persists per-run statistics series for the CLI's list, plot
// and export commands. Simulation state itself is never persisted.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/rmalhotra/chargelab/internal/stats"
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

// RunMetadata describes one recorded run.
type RunMetadata struct {
	ID         string        `json:"id"`
	Scene      string        `json:"scene"`
	Timestamp  time.Time     `json:"timestamp"`
	Seed       int64         `json:"seed"`
	Particles  int           `json:"particles"`
	ForceScale float64       `json:"force_scale"`
	Duration   float64       `json:"duration"`
	Final      stats.Summary `json:"final"`
}

// Sample is one row of the recorded statistics series.
type Sample struct {
	Time    float64
	Summary stats.Summary
}

var seriesHeader = []string{
	"time", "particles", "kinetic", "potential", "total", "avg_speed", "fps",
}

// Save writes metadata.json and stats.csv under a fresh run directory and
// returns the run id.
func (s *Store) Save(scene string, seed int64, particles int, forceScale, duration float64, series []Sample) (string, error) {
	runID := fmt.Sprintf("%s_%d", scene, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Scene:      scene,
		Timestamp:  time.Now(),
		Seed:       seed,
		Particles:  particles,
		ForceScale: forceScale,
		Duration:   duration,
	}
	if len(series) > 0 {
		meta.Final = series[len(series)-1].Summary
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

	csvFile, err := os.Create(filepath.Join(runDir, "stats.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(seriesHeader); err != nil {
		return "", err
	}
	for _, smp := range series {
		row := []string{
			strconv.FormatFloat(smp.Time, 'f', 6, 64),
			strconv.Itoa(smp.Summary.ParticleCount),
			strconv.FormatFloat(smp.Summary.KineticEnergy, 'f', 6, 64),
			strconv.FormatFloat(smp.Summary.PotentialEnergy, 'f', 6, 64),
			strconv.FormatFloat(smp.Summary.TotalEnergy, 'f', 6, 64),
			strconv.FormatFloat(smp.Summary.AverageSpeed, 'f', 6, 64),
			strconv.Itoa(smp.Summary.FPS),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// Load reads one run's metadata.
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

// List returns all recorded runs, newest first.
func (s *Store) List() ([]*RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	runs := make([]*RunMetadata, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue // skip malformed run dirs
		}
		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

// LoadSeries reads back the recorded statistics rows.
func (s *Store) LoadSeries(runID string) ([]Sample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "stats.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil { // header
		return nil, err
	}

	var series []Sample
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) != len(seriesHeader) {
			return nil, fmt.Errorf("store: malformed row in %s", runID)
		}

		var smp Sample
		smp.Time, _ = strconv.ParseFloat(row[0], 64)
		smp.Summary.ParticleCount, _ = strconv.Atoi(row[1])
		smp.Summary.KineticEnergy, _ = strconv.ParseFloat(row[2], 64)
		smp.Summary.PotentialEnergy, _ = strconv.ParseFloat(row[3], 64)
		smp.Summary.TotalEnergy, _ = strconv.ParseFloat(row[4], 64)
		smp.Summary.AverageSpeed, _ = strconv.ParseFloat(row[5], 64)
		smp.Summary.FPS, _ = strconv.Atoi(row[6])
		series = append(series, smp)
	}
	return series, nil
}

// ExportJSON writes a run's metadata and series as one JSON document.
func (s *Store) ExportJSON(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}

	doc := struct {
		Meta   *RunMetadata `json:"meta"`
		Series []struct {
			Time    float64       `json:"time"`
			Summary stats.Summary `json:"summary"`
		} `json:"series"`
	}{Meta: meta}

	for _, smp := range series {
		doc.Series = append(doc.Series, struct {
			Time    float64       `json:"time"`
			Summary stats.Summary `json:"summary"`
		}{smp.Time, smp.Summary})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// ExportCSV copies a run's series to w.
func (s *Store) ExportCSV(runID string, w io.Writer) error {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "stats.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
