package dram

import "log"

// Engine is a timing engine that splits each access into Multiplicity
// transactions of a MemorySystem. An access completes after all its
// transactions complete.
type Engine struct {
	system MemorySystem
	width  int
	table  *progressTable

	// Accesses with transactions not yet accepted by the system, in
	// admission order.
	issuing []*accessProgress
}

// AccessWidth returns the number of bytes of each access.
func (e *Engine) AccessWidth() int {
	return e.width
}

// Multiplicity returns the number of transactions of each access.
func (e *Engine) Multiplicity() int {
	return e.table.multiplicity
}

// NumInflight returns the number of accesses that have not completed.
func (e *Engine) NumInflight() int {
	return len(e.table.accesses)
}

// System returns the memory system that the engine drives.
func (e *Engine) System() MemorySystem {
	return e.system
}

// Tick advances the memory system and sends the transactions that it
// declined earlier.
func (e *Engine) Tick() {
	e.system.Tick(e.table)
	e.issue()
}

// Push admits an access. The address must be aligned to the access width.
// The engine always accepts the access and retries its transactions until the
// memory system takes them.
func (e *Engine) Push(address uint64, isWrite bool) bool {
	if address%uint64(e.width) != 0 {
		log.Panicf("dram: address 0x%x is not aligned to %d bytes",
			address, e.width)
	}

	p := e.table.add(address, isWrite)
	e.issuing = append(e.issuing, p)
	e.issue()

	return true
}

func (e *Engine) issue() {
	for len(e.issuing) > 0 {
		p := e.issuing[0]

		for !e.table.allIssued(p) {
			addr := e.table.beatAddress(p, p.issued)

			if !e.system.CanAdd(addr, p.isWrite) {
				return
			}

			if !e.system.Add(addr, p.isWrite) {
				return
			}

			e.table.markIssued(p)
		}

		e.issuing = e.issuing[1:]
	}
}

// Pop returns the base address of a completed access.
func (e *Engine) Pop() (uint64, bool) {
	return e.table.popDone()
}
