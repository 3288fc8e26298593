package config

import (
	"time"

	"github.com/spf13/viper"
)

// Settings are the process-wide operational knobs, resolved once at
// startup from flags, environment (ARMADA_*), and the config file.
type Settings struct {
	// ParallelDisabled forces every dispatch into sequential mode.
	// Read once here and injected into the dispatcher; nothing below
	// the CLI layer touches the environment.
	ParallelDisabled bool `mapstructure:"parallel-disabled"`

	// RegionWorkers overrides the region-tier worker default (0 = unset)
	RegionWorkers int `mapstructure:"region-workers"`

	// ClusterWorkers overrides the cluster-tier worker default (0 = unset)
	ClusterWorkers int `mapstructure:"cluster-workers"`

	// InstanceWorkers overrides the instance-tier worker default (0 = unset)
	InstanceWorkers int `mapstructure:"instance-workers"`

	// Timeout bounds each fan-out operation
	Timeout time.Duration `mapstructure:"timeout"`

	// OutputFormat is the default output format (table, json, yaml)
	OutputFormat string `mapstructure:"output"`

	// NoColor disables colored output
	NoColor bool `mapstructure:"no-color"`
}

// LoadSettings resolves settings from a viper instance, applying
// defaults for anything unset.
func LoadSettings(v *viper.Viper) (*Settings, error) {
	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, err
	}

	if s.Timeout <= 0 {
		s.Timeout = 30 * time.Second
	}
	if s.OutputFormat == "" {
		s.OutputFormat = "table"
	}

	return s, nil
}
