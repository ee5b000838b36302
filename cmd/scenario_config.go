package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScenarioConfig describes an M/M/c queueing run, loadable from a YAML file
// so scenarios can be checked into version control instead of assembled
// purely from flags.
type ScenarioConfig struct {
	Capacity     int     `yaml:"capacity"`
	ArrivalRate  float64 `yaml:"arrival_rate"`
	ServiceRate  float64 `yaml:"service_rate"`
	HorizonHours float64 `yaml:"horizon_hours"`
	Seed         int64   `yaml:"seed"`
}

// LoadScenarioConfig reads and validates a ScenarioConfig from path.
func LoadScenarioConfig(path string) (*ScenarioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario config %q: %w", path, err)
	}
	var cfg ScenarioConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing scenario config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario config %q: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks that every field has a value that would produce a
// sensible simulation run.
func (c *ScenarioConfig) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", c.Capacity)
	}
	if c.ArrivalRate <= 0 {
		return fmt.Errorf("arrival_rate must be positive, got %v", c.ArrivalRate)
	}
	if c.ServiceRate <= 0 {
		return fmt.Errorf("service_rate must be positive, got %v", c.ServiceRate)
	}
	if c.HorizonHours <= 0 {
		return fmt.Errorf("horizon_hours must be positive, got %v", c.HorizonHours)
	}
	return nil
}
