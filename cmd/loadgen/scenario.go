package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario describes one load run. Every field is optional; zero values fall
// back to the CLI flag defaults.
type Scenario struct {
	Endpoint          string       `yaml:"endpoint"`
	Workers           int          `yaml:"workers"`
	RequestsPerWorker int          `yaml:"requestsPerWorker"`
	Interval          string       `yaml:"interval"`
	Keys              []string     `yaml:"keys"`
	Value             ValueProfile `yaml:"value"`
}

// ValueProfile shapes the generated metric values. Alpha/Beta parameterize a
// Gamma distribution, which approximates real response-time curves.
type ValueProfile struct {
	Alpha float64 `yaml:"alpha"`
	Beta  float64 `yaml:"beta"`
	Scale float64 `yaml:"scale"`
}

func loadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading scenario file: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("error parsing scenario file: %w", err)
	}

	return &sc, nil
}

func (sc *Scenario) applyDefaults(endpoint string, workers, requests int, interval time.Duration, key string) {
	if sc.Endpoint == "" {
		sc.Endpoint = endpoint
	}
	if sc.Workers <= 0 {
		sc.Workers = workers
	}
	if sc.RequestsPerWorker <= 0 {
		sc.RequestsPerWorker = requests
	}
	if sc.Interval == "" {
		sc.Interval = interval.String()
	}
	if len(sc.Keys) == 0 {
		sc.Keys = []string{key}
	}
	if sc.Value.Alpha <= 0 {
		sc.Value.Alpha = 2.0
	}
	if sc.Value.Beta <= 0 {
		sc.Value.Beta = 0.5
	}
	if sc.Value.Scale <= 0 {
		sc.Value.Scale = 10.0
	}
}
