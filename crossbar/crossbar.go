// Package crossbar provides a stage that routes requests to child stages by
// address range.
package crossbar

import (
	"log"
	"sort"

	"github.com/sarchlab/memsim/sim/hooking"
	"github.com/sarchlab/memsim/sim/naming"
	"github.com/sarchlab/memsim/stage"
)

// AddressRange is a half-open range [Start, End) owned by one child stage.
type AddressRange struct {
	Start uint64
	End   uint64
	Child stage.Stage
}

// Contains returns true if the address falls in the range.
func (r AddressRange) Contains(address uint64) bool {
	return address >= r.Start && address < r.End
}

// Comp is an address-routed interconnect. Every request goes to the child that
// owns its address. Responses are collected from the children in the order of
// their range starts.
type Comp struct {
	naming.NamedBase
	hooking.HookableBase

	// Sorted by Start, pairwise disjoint.
	ranges []AddressRange
}

// Tick ticks every child in range order.
func (c *Comp) Tick() {
	for _, r := range c.ranges {
		r.Child.Tick()
	}
}

// Push forwards the request to the child that owns the address. An address
// outside every range is fatal.
func (c *Comp) Push(req stage.Request) {
	r, found := c.Find(req.Address)
	if !found {
		log.Panicf("crossbar %s: out-of-range request address 0x%x",
			c.Name(), req.Address)
	}

	stage.TraceReqReceive(req, c)

	r.Child.Push(req)
}

// Pop returns the first ready response, scanning the children in range order.
func (c *Comp) Pop() (stage.Response, bool) {
	for _, r := range c.ranges {
		rsp, ok := r.Child.Pop()
		if ok {
			stage.TraceReqComplete(rsp, c)
			return rsp, true
		}
	}

	return stage.Response{}, false
}

// Find returns the range that owns the address. It picks the range with the
// greatest start that is not larger than the address and then checks the
// address against the end of that range.
func (c *Comp) Find(address uint64) (AddressRange, bool) {
	i := sort.Search(len(c.ranges), func(i int) bool {
		return c.ranges[i].Start > address
	})

	if i == 0 {
		return AddressRange{}, false
	}

	r := c.ranges[i-1]
	if address >= r.End {
		return AddressRange{}, false
	}

	return r, true
}

// Ranges returns the address partition, sorted by range start.
func (c *Comp) Ranges() []AddressRange {
	ranges := make([]AddressRange, len(c.ranges))
	copy(ranges, c.ranges)

	return ranges
}
