package dram

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// StatsFileName is the name of the file that WriteStats creates.
const StatsFileName = "dram_stats.json"

// Stats summarizes the transactions that a Controller has completed.
type Stats struct {
	Name           string  `json:"name"`
	Reads          uint64  `json:"reads"`
	Writes         uint64  `json:"writes"`
	RowHits        uint64  `json:"row_hits"`
	RowMisses      uint64  `json:"row_misses"`
	RowConflicts   uint64  `json:"row_conflicts"`
	TotalLatency   uint64  `json:"total_latency"`
	AverageLatency float64 `json:"average_latency"`
}

func (s *Stats) record(isWrite bool, latency uint64) {
	if isWrite {
		s.Writes++
	} else {
		s.Reads++
	}

	s.TotalLatency += latency
}

// Stats returns a snapshot of the statistics.
func (c *Controller) Stats() Stats {
	s := c.stats
	s.Name = c.Name()

	if n := s.Reads + s.Writes; n > 0 {
		s.AverageLatency = float64(s.TotalLatency) / float64(n)
	}

	return s
}

// WriteStats writes the statistics as JSON into the directory, creating the
// directory if needed.
func (c *Controller) WriteStats(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create dram output dir: %w", err)
	}

	data, err := json.MarshalIndent(c.Stats(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize dram stats: %w", err)
	}

	path := filepath.Join(dir, StatsFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write dram stats: %w", err)
	}

	return nil
}
