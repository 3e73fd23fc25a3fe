package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one rendered scene in the output manifest.
type ManifestEntry struct {
	Name    string `json:"name"`
	Model   string `json:"model"`
	Shader  string `json:"shader"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Image   string `json:"image"`
	Thumb   string `json:"thumb,omitempty"`
	Faces   int    `json:"faces"`
	Skipped int    `json:"skipped"`
	Pixels  int    `json:"pixels"`
}

// WriteManifest writes the successful results to path as JSON.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, ManifestEntry{
			Name:    r.Name,
			Model:   r.Model,
			Shader:  r.Shader,
			Width:   r.Width,
			Height:  r.Height,
			Image:   r.Image,
			Thumb:   r.Thumb,
			Faces:   r.Stats.Faces,
			Skipped: r.Stats.Skipped,
			Pixels:  r.Stats.Pixels,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
