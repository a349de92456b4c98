package marker

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadFile reads a marker list from a JSON file. The result replaces
// the engine's working set wholesale via SetMarkers.
func LoadFile(path string) ([]Marker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read markers: %w", err)
	}
	var markers []Marker
	if err := json.Unmarshal(data, &markers); err != nil {
		return nil, fmt.Errorf("parse markers: %w", err)
	}
	return markers, nil
}

// SaveFile writes a marker list to a JSON file.
func SaveFile(path string, markers []Marker) error {
	data, err := json.MarshalIndent(markers, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
