package dram

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the organization and timing parameters of a Controller.
// Timing parameters are in cycles.
type Config struct {
	TransferBytes int    `json:"transfer_bytes"`
	NumBank       int    `json:"num_bank"`
	RowBytes      uint64 `json:"row_bytes"`
	QueueSize     int    `json:"queue_size"`

	TCL        int `json:"tCL"`
	TCWL       int `json:"tCWL"`
	TRCD       int `json:"tRCD"`
	TRP        int `json:"tRP"`
	BurstCycle int `json:"burst_cycle"`
}

// DefaultConfig returns the parameters of a DDR3-like part.
func DefaultConfig() Config {
	return Config{
		TransferBytes: 64,
		NumBank:       8,
		RowBytes:      2048,
		QueueSize:     32,
		TCL:           11,
		TCWL:          8,
		TRCD:          11,
		TRP:           11,
		BurstCycle:    4,
	}
}

// LoadConfig reads a JSON file. Fields missing from the file keep their
// default values.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read dram config file: %w", err)
	}

	if err := json.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse dram config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid dram config %s: %w", path, err)
	}

	return config, nil
}

// Validate checks that the parameters describe a usable controller.
func (c Config) Validate() error {
	if c.TransferBytes <= 0 {
		return fmt.Errorf("transfer_bytes must be > 0")
	}
	if c.NumBank <= 0 {
		return fmt.Errorf("num_bank must be > 0")
	}
	if c.RowBytes == 0 || c.RowBytes%uint64(c.TransferBytes) != 0 {
		return fmt.Errorf("row_bytes must be a positive multiple of transfer_bytes")
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("queue_size must be > 0")
	}
	if c.TCL < 0 || c.TCWL < 0 || c.TRCD < 0 || c.TRP < 0 {
		return fmt.Errorf("timing parameters must be >= 0")
	}
	if c.BurstCycle <= 0 {
		return fmt.Errorf("burst_cycle must be > 0")
	}
	return nil
}
