package harness

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sarchlab/memsim/sim/hooking"
	"github.com/sarchlab/memsim/stage"
)

// ErrStalled is returned by Run if the traffic does not drain in time.
var ErrStalled = errors.New("simulation stalled")

// ProgressTracker is told about the requests that are issued and finished.
type ProgressTracker interface {
	IncrementInProgress(amount uint64)
	MoveInProgressToFinished(amount uint64)
}

// A Driver owns the cycle counter. Every cycle, it lets the agent issue
// requests into the top stage, ticks the top stage, and hands all the
// available responses back to the agent.
type Driver struct {
	sync.Mutex

	top           stage.Stage
	agent         *Agent
	issuePerCycle int
	cycle         uint64
	paused        atomic.Bool

	backTracer  *hooking.BackTraceTracer
	traceOutput io.Writer
	progress    ProgressTracker
	logInterval uint64
}

// NewDriver creates a driver.
func NewDriver(top stage.Stage, agent *Agent, issuePerCycle int) *Driver {
	if issuePerCycle <= 0 {
		log.Panicf("driver: issue per cycle must be positive, got %d",
			issuePerCycle)
	}

	return &Driver{
		top:           top,
		agent:         agent,
		issuePerCycle: issuePerCycle,
		traceOutput:   os.Stderr,
	}
}

// WithBackTracer makes the driver dump the inflight tasks to w when the
// simulation stalls.
func (d *Driver) WithBackTracer(t *hooking.BackTraceTracer, w io.Writer) {
	d.backTracer = t
	d.traceOutput = w
}

// WithProgress reports the progress of the traffic to p.
func (d *Driver) WithProgress(p ProgressTracker) {
	d.progress = p
}

// WithLogInterval logs the progress every n cycles. Zero disables logging.
func (d *Driver) WithLogInterval(n uint64) {
	d.logInterval = n
}

// Now returns the current cycle.
func (d *Driver) Now() uint64 {
	return d.cycle
}

// Pause stops Run before the next cycle.
func (d *Driver) Pause() {
	d.paused.Store(true)
}

// Continue resumes a paused Run.
func (d *Driver) Continue() {
	d.paused.Store(false)
}

// IsPaused returns true if the driver is paused.
func (d *Driver) IsPaused() bool {
	return d.paused.Load()
}

// Step runs one cycle.
func (d *Driver) Step() {
	d.Lock()
	defer d.Unlock()

	issued := d.agent.Issue(d.top, d.issuePerCycle)
	if d.progress != nil && issued > 0 {
		d.progress.IncrementInProgress(uint64(issued))
	}

	d.top.Tick()
	d.cycle++

	for {
		rsp, ok := d.top.Pop()
		if !ok {
			break
		}

		d.agent.Receive(rsp)

		if d.progress != nil {
			d.progress.MoveInProgressToFinished(1)
		}
	}

	if d.logInterval > 0 && d.cycle%d.logInterval == 0 {
		log.Printf("cycle %d, %d completed, %d inflight, %d mismatches",
			d.cycle, d.agent.Completed, d.agent.NumInflight(),
			d.agent.Mismatches)
	}
}

// Run steps until the agent is done. It returns ErrStalled if that does not
// happen within maxCycles cycles.
func (d *Driver) Run(maxCycles uint64) error {
	for !d.agent.Done() {
		for d.IsPaused() {
			time.Sleep(10 * time.Millisecond)
		}

		if d.cycle >= maxCycles {
			d.dumpInflight()

			return fmt.Errorf("%w: %d requests in flight after %d cycles",
				ErrStalled, d.agent.NumInflight(), d.cycle)
		}

		d.Step()
	}

	return nil
}

func (d *Driver) dumpInflight() {
	if d.backTracer == nil {
		return
	}

	tasks := d.backTracer.InflightTasks()

	isParent := make(map[string]bool)
	for _, task := range tasks {
		isParent[task.ParentID] = true
	}

	for _, task := range tasks {
		if !isParent[task.ID] {
			d.backTracer.DumpBackTrace(d.traceOutput, task.ID)
		}
	}
}
