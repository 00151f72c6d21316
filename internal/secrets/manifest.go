package secrets

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/huntworks/trailhunt/internal/model"
)

// Manifest is the YAML document describing the hunt's checkpoints:
//
//	checkpoints:
//	  - id: 1
//	    name: Cafeteria notice board
//	    passphrase: cafeteria
type Manifest struct {
	Checkpoints []ManifestEntry `yaml:"checkpoints"`
}

// ManifestEntry is a single checkpoint in the manifest
type ManifestEntry struct {
	ID         int    `yaml:"id"`
	Name       string `yaml:"name,omitempty"`
	Passphrase string `yaml:"passphrase"`
}

// LoadFile reads a YAML manifest from disk and builds a Service from it
func LoadFile(path string) (*Service, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading checkpoint manifest: %w", err)
	}

	svc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return svc, nil
}

// Parse builds a Service from raw manifest bytes
func Parse(data []byte) (*Service, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing checkpoint manifest: %w", err)
	}

	checkpoints := make([]model.Checkpoint, 0, len(m.Checkpoints))
	for _, entry := range m.Checkpoints {
		checkpoints = append(checkpoints, model.Checkpoint{
			ID:         model.CheckpointID(entry.ID),
			Name:       entry.Name,
			Passphrase: entry.Passphrase,
		})
	}
	return New(checkpoints)
}
