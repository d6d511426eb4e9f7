// Package storage keeps headless runs on disk, one directory per run with
// metadata.json and frames.csv.
package storage

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

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidscene/internal/config"
	"github.com/san-kum/rigidscene/internal/dynamo"
	"github.com/san-kum/rigidscene/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
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
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	FPS       int                `json:"fps"`
	Duration  float64            `json:"duration"`
	Frames    int                `json:"frames"`
	ForceAt   []float64          `json:"force_at,omitempty"`
	Config    *config.Config     `json:"config,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
}

var frameHeader = []string{
	"time", "frame",
	"sphere_x", "sphere_y", "sphere_z", "sphere_qw", "sphere_qx", "sphere_qy", "sphere_qz",
	"cube_x", "cube_y", "cube_z", "cube_qw", "cube_qx", "cube_qy", "cube_qz",
	"camera_x", "camera_y", "camera_z", "camera_qw", "camera_qx", "camera_qy", "camera_qz",
	"contacts", "penetration", "energy", "sphere_speed", "cube_speed",
}

func (s *Store) Save(cfg *config.Config, simCfg sim.Config, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", cfg.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Preset:    cfg.Name,
		Timestamp: now,
		FPS:       simCfg.FPS,
		Duration:  simCfg.Duration,
		Frames:    result.FramesRun,
		ForceAt:   simCfg.ForceAt,
		Config:    cfg,
		Metrics:   result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteFrames(csvFile, result.Frames); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteFrames writes frames as CSV with a header row.
func WriteFrames(out io.Writer, frames []dynamo.Snapshot) error {
	w := csv.NewWriter(out)
	if err := w.Write(frameHeader); err != nil {
		return err
	}

	row := make([]string, 0, len(frameHeader))
	for _, f := range frames {
		row = row[:0]
		row = append(row, formatFloat(f.Time), strconv.FormatUint(f.Frame, 10))
		for _, tr := range []dynamo.Transform{f.Sphere, f.Cube, f.Camera} {
			p, q := tr.Position, tr.Orientation
			row = append(row,
				formatFloat(p[0]), formatFloat(p[1]), formatFloat(p[2]),
				formatFloat(q.W), formatFloat(q.V[0]), formatFloat(q.V[1]), formatFloat(q.V[2]))
		}
		row = append(row,
			strconv.Itoa(f.Contacts),
			formatFloat(f.Penetration),
			formatFloat(f.Energy),
			formatFloat(f.SphereSpeed),
			formatFloat(f.CubeSpeed))

		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns stored runs, oldest first.
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

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]dynamo.Snapshot, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadFrames(file)
}

// ReadFrames parses CSV written by WriteFrames. Columns are matched by
// header name; unknown columns are ignored.
func ReadFrames(in io.Reader) ([]dynamo.Snapshot, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []dynamo.Snapshot{}, nil
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[name] = i
	}

	frames := make([]dynamo.Snapshot, 0, len(records)-1)
	for line, record := range records[1:] {
		get := func(name string) (float64, error) {
			i, ok := col[name]
			if !ok || i >= len(record) {
				return 0, nil
			}
			v, err := strconv.ParseFloat(record[i], 64)
			if err != nil {
				return 0, fmt.Errorf("storage: line %d column %s: %w", line+2, name, err)
			}
			return v, nil
		}

		var f dynamo.Snapshot
		var perr error
		num := func(name string) float64 {
			v, err := get(name)
			if err != nil && perr == nil {
				perr = err
			}
			return v
		}
		transform := func(prefix string) dynamo.Transform {
			return dynamo.Transform{
				Position: mgl64.Vec3{num(prefix + "_x"), num(prefix + "_y"), num(prefix + "_z")},
				Orientation: mgl64.Quat{
					W: num(prefix + "_qw"),
					V: mgl64.Vec3{num(prefix + "_qx"), num(prefix + "_qy"), num(prefix + "_qz")},
				},
			}
		}

		f.Time = num("time")
		f.Frame = uint64(num("frame"))
		f.Sphere = transform("sphere")
		f.Cube = transform("cube")
		f.Camera = transform("camera")
		f.Contacts = int(num("contacts"))
		f.Penetration = num("penetration")
		f.Energy = num("energy")
		f.SphereSpeed = num("sphere_speed")
		f.CubeSpeed = num("cube_speed")
		if perr != nil {
			return nil, perr
		}
		frames = append(frames, f)
	}

	return frames, nil
}

// ExportData is the single-document JSON form of a run.
type ExportData struct {
	Meta   RunMetadata       `json:"meta"`
	Frames []dynamo.Snapshot `json:"frames"`
}

func (s *Store) ExportJSON(runID string, out io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Meta: *meta, Frames: frames})
}

// ExportCSV copies the run's frames.csv to out.
func (s *Store) ExportCSV(runID string, out io.Writer) error {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(out, file)
	return err
}
