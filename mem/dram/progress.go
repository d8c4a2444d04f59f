package dram

import "log"

type accessProgress struct {
	base      uint64
	isWrite   bool
	issued    int
	completed int
}

// progressTable tracks the transactions of every access in flight. It is
// owned by the engine and handed to the memory system only for the duration
// of a Tick.
type progressTable struct {
	transferBytes uint64
	multiplicity  int

	accesses  map[uint64]*accessProgress
	beatOwner map[uint64]uint64
	done      []uint64
}

func newProgressTable(transferBytes uint64, multiplicity int) *progressTable {
	return &progressTable{
		transferBytes: transferBytes,
		multiplicity:  multiplicity,
		accesses:      make(map[uint64]*accessProgress),
		beatOwner:     make(map[uint64]uint64),
	}
}

func (t *progressTable) add(base uint64, isWrite bool) *accessProgress {
	if _, found := t.accesses[base]; found {
		log.Panicf("dram: address 0x%x is already in flight", base)
	}

	p := &accessProgress{base: base, isWrite: isWrite}
	t.accesses[base] = p

	return p
}

func (t *progressTable) beatAddress(p *accessProgress, i int) uint64 {
	return p.base + uint64(i)*t.transferBytes
}

func (t *progressTable) markIssued(p *accessProgress) {
	t.beatOwner[t.beatAddress(p, p.issued)] = p.base
	p.issued++
}

func (t *progressTable) allIssued(p *accessProgress) bool {
	return p.issued == t.multiplicity
}

// Complete records that one transaction has finished. Transactions of an
// access must finish in ascending address order.
func (t *progressTable) Complete(address uint64, isWrite bool) {
	base, found := t.beatOwner[address]
	if !found {
		log.Panicf("dram: completion of unknown transaction 0x%x", address)
	}

	p := t.accesses[base]

	expected := t.beatAddress(p, p.completed)
	if address != expected {
		log.Panicf("dram: transaction 0x%x of access 0x%x completed out of "+
			"order, expecting 0x%x", address, base, expected)
	}

	if isWrite != p.isWrite {
		log.Panicf("dram: transaction 0x%x completed with the wrong direction",
			address)
	}

	delete(t.beatOwner, address)
	p.completed++

	if p.completed == t.multiplicity {
		delete(t.accesses, base)
		t.done = append(t.done, base)
	}
}

func (t *progressTable) popDone() (uint64, bool) {
	if len(t.done) == 0 {
		return 0, false
	}

	base := t.done[0]
	t.done = t.done[1:]

	return base, true
}
