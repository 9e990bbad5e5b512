// Package storage persists solved field arrays. Each solve gets one
// directory under the data dir holding metadata.json (grid definition
// and solve stats) and field.bin (raw little-endian float64 samples).
// A load reconstructs a bit-identical field array.
package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vuthalab/biot-savart/internal/geometry"
	"github.com/vuthalab/biot-savart/internal/grid"
	"github.com/vuthalab/biot-savart/internal/solver"
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

// GridMetadata pins down the lattice so the index-to-coordinate
// mapping survives persistence.
type GridMetadata struct {
	Start      [3]float64 `json:"start"`
	Box        [3]float64 `json:"box"`
	Resolution float64    `json:"resolution"`
	Nx         int        `json:"nx"`
	Ny         int        `json:"ny"`
	Nz         int        `json:"nz"`
}

type RunMetadata struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Timestamp      time.Time    `json:"timestamp"`
	CoilFiles      []string     `json:"coil_files,omitempty"`
	CoilResolution float64      `json:"coil_resolution"`
	Grid           GridMetadata `json:"grid"`
	CoarseElements int          `json:"coarse_elements"`
	FineElements   int          `json:"fine_elements"`
	Suppressed     int64        `json:"suppressed_samples"`
	ElapsedMs      int64        `json:"elapsed_ms"`
	Units          string       `json:"units"`
}

func gridMeta(g *grid.Grid) GridMetadata {
	return GridMetadata{
		Start:      [3]float64{g.Start.X, g.Start.Y, g.Start.Z},
		Box:        [3]float64{g.Box.X, g.Box.Y, g.Box.Z},
		Resolution: g.Resolution,
		Nx:         g.Nx, Ny: g.Ny, Nz: g.Nz,
	}
}

// Save persists one solve; the returned run ID names its directory.
func (s *Store) Save(name string, coilFiles []string, coilResolution float64, res *solver.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:             runID,
		Name:           name,
		Timestamp:      time.Now(),
		CoilFiles:      coilFiles,
		CoilResolution: coilResolution,
		Grid:           gridMeta(res.Field.Grid),
		CoarseElements: res.Stats.CoarseElements,
		FineElements:   res.Stats.FineElements,
		Suppressed:     res.Stats.Suppressed,
		ElapsedMs:      res.Stats.Elapsed.Milliseconds(),
		Units:          "cm, A, T",
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

	binFile, err := os.Create(filepath.Join(runDir, "field.bin"))
	if err != nil {
		return "", err
	}
	defer binFile.Close()

	if err := binary.Write(binFile, binary.LittleEndian, res.Field.Data); err != nil {
		return "", err
	}
	return runID, nil
}

// Load reads a persisted field back. The grid is rebuilt from the
// metadata, so the index-to-coordinate mapping is preserved exactly.
func (s *Store) Load(runID string) (*grid.Field, *RunMetadata, error) {
	meta, err := s.LoadMetadata(runID)
	if err != nil {
		return nil, nil, err
	}

	g, err := grid.New(
		geometry.Vec3{X: meta.Grid.Start[0], Y: meta.Grid.Start[1], Z: meta.Grid.Start[2]},
		geometry.Vec3{X: meta.Grid.Box[0], Y: meta.Grid.Box[1], Z: meta.Grid.Box[2]},
		meta.Grid.Resolution,
	)
	if err != nil {
		return nil, nil, err
	}
	if g.Nx != meta.Grid.Nx || g.Ny != meta.Grid.Ny || g.Nz != meta.Grid.Nz {
		return nil, nil, fmt.Errorf("storage: run %s: rebuilt grid %dx%dx%d disagrees with metadata %dx%dx%d",
			runID, g.Nx, g.Ny, g.Nz, meta.Grid.Nx, meta.Grid.Ny, meta.Grid.Nz)
	}

	binFile, err := os.Open(filepath.Join(s.baseDir, runID, "field.bin"))
	if err != nil {
		return nil, nil, err
	}
	defer binFile.Close()

	field := grid.NewField(g)
	if err := binary.Read(binFile, binary.LittleEndian, field.Data); err != nil {
		return nil, nil, fmt.Errorf("storage: run %s: %w", runID, err)
	}
	return field, meta, nil
}

// LoadMetadata reads just the metadata of a run.
func (s *Store) LoadMetadata(runID string) (*RunMetadata, error) {
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

// List returns metadata for every stored run.
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
		meta, err := s.LoadMetadata(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

// Delete removes a stored run.
func (s *Store) Delete(runID string) error {
	return os.RemoveAll(filepath.Join(s.baseDir, runID))
}
