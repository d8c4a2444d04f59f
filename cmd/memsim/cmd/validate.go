package cmd

import (
	"fmt"
	"io"

	"github.com/sarchlab/memsim/config"
	"github.com/sarchlab/memsim/platform"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that a config describes a buildable memory system.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			env, err := config.LoadEnv(".env")
			if err != nil {
				return err
			}

			path = env.ConfigPath
		}

		return validateConfig(path, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().String("config", "", "Path to the memory system config")
}

func validateConfig(path string, out io.Writer) error {
	if path == "" {
		return fmt.Errorf("no config given, use --config or %s",
			config.EnvConfig)
	}

	c, err := config.Load(path)
	if err != nil {
		return err
	}

	p, err := platform.Build(c)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: %d endpoints, %d-byte accesses\n",
		path, len(p.Endpoints), c.Width)

	for _, ep := range p.Endpoints {
		fmt.Fprintf(out, "  %-12s [0x%x, 0x%x) delay %d/%d, %s\n",
			ep.Config.Name, uint64(ep.Config.Start), uint64(ep.Config.End),
			ep.Config.DownDelay, ep.Config.UpDelay, ep.Config.Engine)
	}

	return nil
}
