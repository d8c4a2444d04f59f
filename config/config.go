// Package config describes the memory systems that memsim builds and the
// traffic that it runs on them.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/sarchlab/memsim/sim/naming"
)

// Engine names.
const (
	EngineIdeal = "ideal"
	EngineDRAM  = "dram"
)

// Address is an address in a config file. It can be written as a number or
// as a string such as "0x8000_0000".
type Address uint64

// UnmarshalJSON accepts numbers and strings in any base that strconv can
// parse.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n uint64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("address %s is neither a string nor a number",
				string(data))
		}

		*a = Address(n)

		return nil
	}

	n, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", s, err)
	}

	*a = Address(n)

	return nil
}

// MarshalJSON writes the address as a hexadecimal string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(fmt.Sprintf("0x%x", uint64(a)))
}

// Endpoint is a memory that serves the address range [Start, End).
type Endpoint struct {
	Name       string  `json:"name"`
	Start      Address `json:"start"`
	End        Address `json:"end"`
	UpDelay    uint64  `json:"up_delay"`
	DownDelay  uint64  `json:"down_delay"`
	Engine     string  `json:"engine"`
	DRAMConfig string  `json:"dram_config,omitempty"`
	OutputDir  string  `json:"output_dir,omitempty"`
}

// Delay is a pair of pipeline delays, in cycles.
type Delay struct {
	UpDelay   uint64 `json:"up_delay"`
	DownDelay uint64 `json:"down_delay"`
}

// Traffic describes the random requests that the agent issues.
type Traffic struct {
	Reads         int    `json:"reads"`
	Writes        int    `json:"writes"`
	Seed          int64  `json:"seed"`
	IssuePerCycle int    `json:"issue_per_cycle"`
	MaxCycles     uint64 `json:"max_cycles"`
}

// Config is the top-level config of a simulation.
type Config struct {
	Width     int        `json:"width"`
	Endpoints []Endpoint `json:"endpoints"`
	TopDelay  *Delay     `json:"top_delay,omitempty"`
	Traffic   Traffic    `json:"traffic"`
}

// Default returns a config with the default width and traffic but no
// endpoint.
func Default() *Config {
	return &Config{
		Width: 64,
		Traffic: Traffic{
			Reads:         1000,
			Writes:        1000,
			Seed:          1,
			IssuePerCycle: 1,
			MaxCycles:     1_000_000,
		},
	}
}

// Load reads a JSON config file. Fields missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	c := Default()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	for i := range c.Endpoints {
		if c.Endpoints[i].Engine == "" {
			c.Endpoints[i].Engine = EngineIdeal
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return c, nil
}

// Save writes the config as JSON.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the config describes a buildable system.
func (c *Config) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("width must be > 0")
	}

	if len(c.Endpoints) == 0 {
		return fmt.Errorf("at least one endpoint is required")
	}

	names := make(map[string]bool)
	for _, e := range c.Endpoints {
		if err := c.validateEndpoint(e); err != nil {
			return err
		}

		if names[e.Name] {
			return fmt.Errorf("endpoint %s is defined twice", e.Name)
		}

		names[e.Name] = true
	}

	if err := c.validateRangesDoNotOverlap(); err != nil {
		return err
	}

	return c.validateTraffic()
}

func (c *Config) validateEndpoint(e Endpoint) error {
	if err := naming.Validate(e.Name); err != nil {
		return fmt.Errorf("endpoint name: %w", err)
	}

	if e.Start >= e.End {
		return fmt.Errorf("endpoint %s: start must be < end", e.Name)
	}

	width := Address(c.Width)
	if e.Start%width != 0 || e.End%width != 0 {
		return fmt.Errorf("endpoint %s: range must be aligned to %d bytes",
			e.Name, c.Width)
	}

	switch e.Engine {
	case EngineIdeal:
	case EngineDRAM:
		if e.OutputDir == "" {
			return fmt.Errorf("endpoint %s: output_dir is required by "+
				"the dram engine", e.Name)
		}
	default:
		return fmt.Errorf("endpoint %s: unknown engine %q", e.Name, e.Engine)
	}

	return nil
}

func (c *Config) validateRangesDoNotOverlap() error {
	sorted := make([]Endpoint, len(c.Endpoints))
	copy(sorted, c.Endpoints)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Start < sorted[i-1].End {
			return fmt.Errorf("endpoints %s and %s overlap",
				sorted[i-1].Name, sorted[i].Name)
		}
	}

	return nil
}

func (c *Config) validateTraffic() error {
	t := c.Traffic

	if t.Reads < 0 || t.Writes < 0 {
		return fmt.Errorf("traffic reads and writes must be >= 0")
	}

	if t.IssuePerCycle <= 0 {
		return fmt.Errorf("traffic issue_per_cycle must be > 0")
	}

	if t.MaxCycles == 0 {
		return fmt.Errorf("traffic max_cycles must be > 0")
	}

	return nil
}
