package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/reportloom-cli/internal/chart"
	"github.com/KaramelBytes/reportloom-cli/internal/utils"
	"github.com/google/uuid"
)

const manifestFileName = "manifest.json"

// Manifest records one report run: what was loaded, which charts were
// produced, and where each output landed.
type Manifest struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	GeneratedAt time.Time         `json:"generated_at"`
	Source      string            `json:"source"`
	Rows        int               `json:"rows"`
	Columns     []string          `json:"columns"`
	Charts      []ChartEntry      `json:"charts"`
	Outputs     map[string]string `json:"outputs"`
}

// ChartEntry is one rendered chart in the manifest.
type ChartEntry struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

// NewManifest starts a manifest for a fresh run.
func NewManifest(title, source string) *Manifest {
	return &Manifest{
		ID:          uuid.NewString(),
		Title:       title,
		GeneratedAt: time.Now(),
		Source:      source,
		Outputs:     make(map[string]string),
	}
}

// AddChart appends a rendered artifact to the manifest.
func (m *Manifest) AddChart(kind chart.Kind, art *chart.Artifact) {
	m.Charts = append(m.Charts, ChartEntry{
		Kind:  string(kind),
		Title: art.Title,
		Path:  art.Path,
	})
}

// Save writes manifest.json into dir using an atomic write.
func (m *Manifest) Save(dir string) (string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("ensure reports dir: %w", err)
	}
	data, err := utils.PrettyJSON(m)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, manifestFileName)
	if err := utils.SafeWriteFile(path, data); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return path, nil
}

// LoadManifest reads a manifest.json previously written by Save.
func LoadManifest(dir string) (*Manifest, error) {
	b, err := os.ReadFile(filepath.Join(dir, manifestFileName))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
