package dram

import (
	"log"

	"github.com/sarchlab/memsim/sim/naming"
)

type transaction struct {
	address  uint64
	isWrite  bool
	row      uint64
	arriveAt uint64

	started bool
	doneAt  uint64
}

type bank struct {
	rowOpen bool
	openRow uint64

	// The earliest cycle that the bank can start the next transaction.
	nextStart uint64
	lastDone  uint64

	queue []*transaction
}

// Controller is a MemorySystem that models banks with an open-row policy.
// Consecutive rows are interleaved across banks. Transactions of a bank
// complete in the order they are added.
type Controller struct {
	naming.NamedBase

	config         Config
	cycle          uint64
	banks          []*bank
	numOutstanding int
	stats          Stats
}

// NewController creates a controller. It panics if the config is invalid.
func NewController(name string, config Config) *Controller {
	if err := config.Validate(); err != nil {
		log.Panicf("dram %s: %v", name, err)
	}

	c := &Controller{
		NamedBase: naming.MakeNamedBase(name),
		config:    config,
		banks:     make([]*bank, config.NumBank),
	}

	for i := range c.banks {
		c.banks[i] = &bank{}
	}

	return c
}

// Config returns the parameters of the controller.
func (c *Controller) Config() Config {
	return c.config
}

// CurrentCycle returns the number of cycles that the controller has ticked.
func (c *Controller) CurrentCycle() uint64 {
	return c.cycle
}

// NumOutstanding returns the number of transactions that have not completed.
func (c *Controller) NumOutstanding() int {
	return c.numOutstanding
}

// TransferBytes returns the number of bytes moved by each transaction.
func (c *Controller) TransferBytes() int {
	return c.config.TransferBytes
}

// CanAdd returns true if the transaction queue is not full.
func (c *Controller) CanAdd(_ uint64, _ bool) bool {
	return c.numOutstanding < c.config.QueueSize
}

// Add queues a transaction at its bank.
func (c *Controller) Add(address uint64, isWrite bool) bool {
	if !c.CanAdd(address, isWrite) {
		return false
	}

	bankID, row := c.mapAddress(address)
	b := c.banks[bankID]
	b.queue = append(b.queue, &transaction{
		address:  address,
		isWrite:  isWrite,
		row:      row,
		arriveAt: c.cycle,
	})
	c.numOutstanding++

	return true
}

func (c *Controller) mapAddress(address uint64) (bankID int, row uint64) {
	rowAddr := address / c.config.RowBytes
	bankID = int(rowAddr % uint64(c.config.NumBank))
	row = rowAddr / uint64(c.config.NumBank)

	return bankID, row
}

// Tick advances all the banks by one cycle.
func (c *Controller) Tick(sink CompletionSink) {
	c.cycle++

	for _, b := range c.banks {
		c.startNext(b)
		c.complete(b, sink)
	}
}

func (c *Controller) startNext(b *bank) {
	if b.nextStart > c.cycle {
		return
	}

	for _, t := range b.queue {
		if t.started {
			continue
		}

		c.start(b, t)

		return
	}
}

func (c *Controller) start(b *bank, t *transaction) {
	prepare := 0

	switch {
	case b.rowOpen && b.openRow == t.row:
		c.stats.RowHits++
	case !b.rowOpen:
		c.stats.RowMisses++
		prepare = c.config.TRCD
	default:
		c.stats.RowConflicts++
		prepare = c.config.TRP + c.config.TRCD
	}

	cas := c.config.TCL
	if t.isWrite {
		cas = c.config.TCWL
	}

	b.rowOpen = true
	b.openRow = t.row

	t.started = true
	t.doneAt = c.cycle + uint64(prepare+cas+c.config.BurstCycle)
	if t.doneAt < b.lastDone {
		t.doneAt = b.lastDone
	}

	b.lastDone = t.doneAt
	b.nextStart = c.cycle + uint64(prepare+c.config.BurstCycle)
}

func (c *Controller) complete(b *bank, sink CompletionSink) {
	for len(b.queue) > 0 {
		t := b.queue[0]
		if !t.started || t.doneAt > c.cycle {
			return
		}

		b.queue = b.queue[1:]
		c.numOutstanding--
		c.stats.record(t.isWrite, c.cycle-t.arriveAt)

		sink.Complete(t.address, t.isWrite)
	}
}
