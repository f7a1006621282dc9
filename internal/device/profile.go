// Package device simulates Polar sensors. Profiles describe what a device
// can stream; the manager runs connection lifecycles and sample generation
// and publishes batches to the rest of the bridge.
package device

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/signal"
)

// StreamSpec describes one stream a device produces.
type StreamSpec struct {
	Kind string `yaml:"kind"`
	Hz   int    `yaml:"hz"`
}

// Profile describes one simulated sensor.
type Profile struct {
	ID      string       `yaml:"id"`
	Name    string       `yaml:"name"`
	BaseHR  int          `yaml:"base_hr"`
	RSSI    int          `yaml:"rssi"`
	Battery int          `yaml:"battery"`
	Streams []StreamSpec `yaml:"streams"`
}

// profileFile mirrors the YAML schema of a profile file.
type profileFile struct {
	Devices []Profile `yaml:"devices"`
}

// Kinds returns the parsed stream kinds of the profile. Invalid entries are
// rejected at load time, so parse failures are skipped here.
func (p Profile) Kinds() []signal.Kind {
	kinds := make([]signal.Kind, 0, len(p.Streams))
	for _, s := range p.Streams {
		k, err := signal.ParseKind(s.Kind)
		if err != nil {
			continue
		}
		kinds = append(kinds, k)
	}
	return kinds
}

// LoadProfiles reads simulated device profiles from a YAML file.
func LoadProfiles(path string) ([]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read device profiles: %w", err)
	}
	var f profileFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse device profiles %s: %w", path, err)
	}
	if err := validateProfiles(f.Devices); err != nil {
		return nil, fmt.Errorf("device profiles %s: %w", path, err)
	}
	return f.Devices, nil
}

func validateProfiles(profiles []Profile) error {
	if len(profiles) == 0 {
		return fmt.Errorf("no devices defined")
	}
	seen := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		if p.ID == "" {
			return fmt.Errorf("device with empty id")
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate device id %q", p.ID)
		}
		seen[p.ID] = true
		if p.BaseHR <= 0 {
			return fmt.Errorf("device %s: base_hr must be positive", p.ID)
		}
		if len(p.Streams) == 0 {
			return fmt.Errorf("device %s: no streams", p.ID)
		}
		for _, s := range p.Streams {
			if _, err := signal.ParseKind(s.Kind); err != nil {
				return fmt.Errorf("device %s: %w", p.ID, err)
			}
			if s.Hz < 1 || s.Hz > 1000 {
				return fmt.Errorf("device %s: stream %s rate %d out of range 1..1000", p.ID, s.Kind, s.Hz)
			}
		}
	}
	return nil
}

// BuiltinProfiles returns the default simulated sensors used when no profile
// file is configured: a chest strap and an armband, mirroring the hardware
// the bridge targets.
func BuiltinProfiles() []Profile {
	return []Profile{
		{
			ID:      "H10-8C2B1D",
			Name:    "Polar H10",
			BaseHR:  72,
			RSSI:    -58,
			Battery: 87,
			Streams: []StreamSpec{
				{Kind: "ecg", Hz: 130},
				{Kind: "hr", Hz: 1},
				{Kind: "rr", Hz: 1},
				{Kind: "acc", Hz: 50},
			},
		},
		{
			ID:      "VS-3F9A2C",
			Name:    "Polar Verity Sense",
			BaseHR:  70,
			RSSI:    -64,
			Battery: 92,
			Streams: []StreamSpec{
				{Kind: "ppg", Hz: 55},
				{Kind: "ppi", Hz: 1},
				{Kind: "hr", Hz: 1},
				{Kind: "acc", Hz: 52},
				{Kind: "gyr", Hz: 52},
			},
		},
	}
}
