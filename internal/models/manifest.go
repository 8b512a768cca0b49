// internal/models/manifest.go

package models

// Manifest mirrors versions.json: {"tools": {"BulkCommands": "1.0.0", ...}}.
type Manifest struct {
	Tools map[string]string `json:"tools"`
}

func NewManifest() *Manifest {
	return &Manifest{Tools: make(map[string]string)}
}

// Version returns the tool's version, "0.0.0" when the tool is unknown.
func (m *Manifest) Version(tool string) string {
	if m == nil || m.Tools == nil {
		return "0.0.0"
	}
	if v, ok := m.Tools[tool]; ok {
		return v
	}
	return "0.0.0"
}

// VersionCache is the on-disk form of .versions_cache.json.
type VersionCache struct {
	Timestamp float64   `json:"timestamp"`
	Versions  *Manifest `json:"versions"`
}

// UpdateInfo describes one tool with a newer remote version.
type UpdateInfo struct {
	Tool    string
	Current string
	Latest  string
}
