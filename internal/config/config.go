// Package config loads and persists bridge settings with viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Subject SubjectConfig
	Network NetworkConfig
	Streams StreamsConfig
	Mirror  MirrorConfig
	Archive ArchiveConfig
	Devices DevicesConfig
}

// SubjectConfig holds the last-used subject sheet values.
type SubjectConfig struct {
	ID    string
	Group string
	Label string
	Notes string
}

// NetworkConfig holds the UDP endpoint the bridge transmits to.
type NetworkConfig struct {
	Host    string
	Port    int
	Enabled bool
}

// StreamsConfig toggles which streams the simulator produces.
type StreamsConfig struct {
	ECG bool
	PPG bool
	RR  bool
	PPI bool
	HR  bool
}

// MirrorConfig holds MQTT mirror settings.
type MirrorConfig struct {
	Enabled   bool
	Broker    string
	Port      int
	TopicRoot string `mapstructure:"topic_root"`
}

// ArchiveConfig holds the sqlite session archive settings.
type ArchiveConfig struct {
	Enabled bool
	Path    string
}

// DevicesConfig points at the simulated device profiles.
type DevicesConfig struct {
	ProfilePath string `mapstructure:"profile_path"` // empty = built-in profiles
}

// Load reads configuration from file and env. Env var overrides use prefix PHYSIOBRIDGE_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("subject.id", "")
	v.SetDefault("subject.group", "")
	v.SetDefault("subject.label", "")
	v.SetDefault("subject.notes", "")
	v.SetDefault("network.host", "127.0.0.1")
	v.SetDefault("network.port", 9000)
	v.SetDefault("network.enabled", true)
	v.SetDefault("streams.ecg", true)
	v.SetDefault("streams.ppg", true)
	v.SetDefault("streams.rr", true)
	v.SetDefault("streams.ppi", true)
	v.SetDefault("streams.hr", true)
	v.SetDefault("mirror.enabled", false)
	v.SetDefault("mirror.broker", "127.0.0.1")
	v.SetDefault("mirror.port", 1883)
	v.SetDefault("mirror.topic_root", "physiobridge")
	v.SetDefault("archive.enabled", true)
	v.SetDefault("archive.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "physiobridge", "sessions.db"))
	v.SetDefault("devices.profile_path", "")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("PHYSIOBRIDGE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "physiobridge"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PHYSIOBRIDGE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
// The settings form and the subject/endpoint sheets persist through this.
func Save(cfg Config) error {
	path := os.Getenv("PHYSIOBRIDGE_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "physiobridge", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("subject.id", cfg.Subject.ID)
	v.Set("subject.group", cfg.Subject.Group)
	v.Set("subject.label", cfg.Subject.Label)
	v.Set("subject.notes", cfg.Subject.Notes)
	v.Set("network.host", cfg.Network.Host)
	v.Set("network.port", cfg.Network.Port)
	v.Set("network.enabled", cfg.Network.Enabled)
	v.Set("streams.ecg", cfg.Streams.ECG)
	v.Set("streams.ppg", cfg.Streams.PPG)
	v.Set("streams.rr", cfg.Streams.RR)
	v.Set("streams.ppi", cfg.Streams.PPI)
	v.Set("streams.hr", cfg.Streams.HR)
	v.Set("mirror.enabled", cfg.Mirror.Enabled)
	v.Set("mirror.broker", cfg.Mirror.Broker)
	v.Set("mirror.port", cfg.Mirror.Port)
	v.Set("mirror.topic_root", cfg.Mirror.TopicRoot)
	v.Set("archive.enabled", cfg.Archive.Enabled)
	v.Set("archive.path", cfg.Archive.Path)
	v.Set("devices.profile_path", cfg.Devices.ProfilePath)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
