package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that memsim reads.
const (
	EnvConfig      = "MEMSIM_CONFIG"
	EnvRecord      = "MEMSIM_RECORD"
	EnvMonitorPort = "MEMSIM_MONITOR_PORT"
	EnvSeed        = "MEMSIM_SEED"
)

// Env holds the settings that come from the environment. Command-line flags
// take precedence over them.
type Env struct {
	ConfigPath  string
	RecordPath  string
	MonitorPort int
	Seed        int64
	HasSeed     bool
}

// LoadEnv reads the settings from a dotenv file, if it exists, and from the
// process environment. Process variables override the file.
func LoadEnv(dotEnvPath string) (Env, error) {
	vars := map[string]string{}

	if _, err := os.Stat(dotEnvPath); err == nil {
		vars, err = godotenv.Read(dotEnvPath)
		if err != nil {
			return Env{}, fmt.Errorf("failed to read %s: %w", dotEnvPath, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Env{}, err
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}

		return vars[key]
	}

	env := Env{
		ConfigPath: lookup(EnvConfig),
		RecordPath: lookup(EnvRecord),
	}

	if v := lookup(EnvMonitorPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Env{}, fmt.Errorf("invalid %s: %w", EnvMonitorPort, err)
		}

		env.MonitorPort = port
	}

	if v := lookup(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 0, 64)
		if err != nil {
			return Env{}, fmt.Errorf("invalid %s: %w", EnvSeed, err)
		}

		env.Seed = seed
		env.HasSeed = true
	}

	return env, nil
}
