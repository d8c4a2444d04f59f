package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/memsim/config"
	"github.com/sarchlab/memsim/datarecording"
	"github.com/sarchlab/memsim/harness"
	"github.com/sarchlab/memsim/monitoring"
	"github.com/sarchlab/memsim/platform"
	"github.com/sarchlab/memsim/sim/hooking"
	"github.com/spf13/cobra"
)

type runOptions struct {
	configPath  string
	recordPath  string
	monitorPort int
	openBrowser bool
	seed        int64
	hasSeed     bool
	verbose     bool
}

// summary is the outcome of a run.
type summary struct {
	Cycles         uint64
	Completed      int
	Mismatches     int
	AverageLatency float64
	MaxLatency     uint64
	BusyCycles     map[string]uint64
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run random traffic on a memory system.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts, err := runOptionsFromFlags(cmd)
		if err != nil {
			return err
		}

		s, err := runSimulation(opts, cmd.OutOrStdout())
		if err != nil {
			return err
		}

		if s.Mismatches > 0 {
			return fmt.Errorf("%d responses carried unexpected data",
				s.Mismatches)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	flags := runCmd.Flags()
	flags.String("config", "", "Path to the memory system config")
	flags.String("record", "", "Record tasks into <record>.sqlite3")
	flags.Int("monitor", 0, "Start the monitoring server on the port")
	flags.Bool("open-browser", false, "Open the monitoring page")
	flags.Int64("seed", 0, "Override the traffic seed")
	flags.Bool("verbose", false, "Log the progress periodically")
}

func runOptionsFromFlags(cmd *cobra.Command) (runOptions, error) {
	env, err := config.LoadEnv(".env")
	if err != nil {
		return runOptions{}, err
	}

	opts := runOptions{
		configPath:  env.ConfigPath,
		recordPath:  env.RecordPath,
		monitorPort: env.MonitorPort,
		seed:        env.Seed,
		hasSeed:     env.HasSeed,
	}

	flags := cmd.Flags()

	if flags.Changed("config") {
		opts.configPath, _ = flags.GetString("config")
	}

	if flags.Changed("record") {
		opts.recordPath, _ = flags.GetString("record")
	}

	if flags.Changed("monitor") {
		opts.monitorPort, _ = flags.GetInt("monitor")
	}

	if flags.Changed("seed") {
		opts.seed, _ = flags.GetInt64("seed")
		opts.hasSeed = true
	}

	opts.openBrowser, _ = flags.GetBool("open-browser")
	opts.verbose, _ = flags.GetBool("verbose")

	if opts.configPath == "" {
		return opts, fmt.Errorf("no config given, use --config or %s",
			config.EnvConfig)
	}

	return opts, nil
}

func agentRanges(p *platform.Platform) []harness.AddressRange {
	ranges := []harness.AddressRange{}
	for _, r := range p.AddressRanges() {
		ranges = append(ranges, harness.AddressRange{Start: r.Start, End: r.End})
	}

	return ranges
}

func runSimulation(opts runOptions, out io.Writer) (*summary, error) {
	c, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	if opts.hasSeed {
		c.Traffic.Seed = opts.seed
	}

	p, err := platform.Build(c)
	if err != nil {
		return nil, err
	}

	agent := harness.NewAgent("Agent", c.Width, agentRanges(p), c.Traffic.Seed)
	agent.ReadLeft = c.Traffic.Reads
	agent.WriteLeft = c.Traffic.Writes

	driver := harness.NewDriver(p.Top, agent, c.Traffic.IssuePerCycle)

	latencyTracer := hooking.NewLatencyTracer(driver, nil)
	agent.AcceptHook(latencyTracer)

	backTracer := hooking.NewBackTraceTracer(driver)
	agent.AcceptHook(backTracer)
	p.AcceptHook(backTracer)
	driver.WithBackTracer(backTracer, os.Stderr)

	busyTracers := make(map[string]*hooking.BusyTimeTracer)
	for _, ep := range p.Endpoints {
		t := hooking.NewBusyTimeTracer(driver, nil)
		ep.Memory.AcceptHook(t)
		busyTracers[ep.Memory.Name()] = t
	}

	var dbTracer *hooking.DBTracer

	if opts.recordPath != "" {
		recorder, err := datarecording.New(opts.recordPath)
		if err != nil {
			return nil, err
		}
		defer recorder.Close()

		dbTracer = hooking.NewDBTracer(driver,
			datarecording.NewTaskBackend(recorder))
		agent.AcceptHook(dbTracer)
		p.AcceptHook(dbTracer)
	}

	if opts.monitorPort != 0 {
		startMonitor(opts, p, driver, backTracer, c.Traffic)
	}

	if opts.verbose {
		driver.WithLogInterval(10000)
	}

	runErr := driver.Run(c.Traffic.MaxCycles)

	if dbTracer != nil {
		dbTracer.Terminate()
	}

	if err := p.WriteStats(); err != nil {
		return nil, err
	}

	s := &summary{
		Cycles:         driver.Now(),
		Completed:      agent.Completed,
		Mismatches:     agent.Mismatches,
		AverageLatency: latencyTracer.AverageLatency(),
		MaxLatency:     latencyTracer.MaxLatency(),
		BusyCycles:     make(map[string]uint64),
	}

	for name, t := range busyTracers {
		s.BusyCycles[name] = t.BusyTime()
	}

	printSummary(out, s, p)

	return s, runErr
}

func startMonitor(
	opts runOptions,
	p *platform.Platform,
	driver *harness.Driver,
	backTracer *hooking.BackTraceTracer,
	traffic config.Traffic,
) {
	m := monitoring.NewMonitor().WithPortNumber(opts.monitorPort)
	m.RegisterSimulation(driver)
	m.RegisterBackTracer(backTracer)

	for _, comp := range p.Components() {
		m.RegisterComponent(comp)
	}

	bar := m.CreateProgressBar("Traffic",
		uint64(traffic.Reads+traffic.Writes))
	driver.WithProgress(bar)

	url := m.StartServer()
	if opts.openBrowser {
		m.OpenBrowser(url)
	}
}

func printSummary(out io.Writer, s *summary, p *platform.Platform) {
	fmt.Fprintf(out, "cycles: %d\n", s.Cycles)
	fmt.Fprintf(out, "completed: %d\n", s.Completed)
	fmt.Fprintf(out, "mismatches: %d\n", s.Mismatches)
	fmt.Fprintf(out, "latency: avg %.2f, max %d\n",
		s.AverageLatency, s.MaxLatency)

	for _, ep := range p.Endpoints {
		name := ep.Memory.Name()
		fmt.Fprintf(out, "%s busy cycles: %d\n", name, s.BusyCycles[name])

		if ep.DRAM != nil {
			st := ep.DRAM.Stats()
			fmt.Fprintf(out, "%s: %d reads, %d writes, %d hits, "+
				"%d misses, %d conflicts\n",
				ep.DRAM.Name(), st.Reads, st.Writes,
				st.RowHits, st.RowMisses, st.RowConflicts)
		}
	}
}
