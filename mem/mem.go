// Package mem provides the memory model, the stage that terminates every
// request path.
package mem

import (
	"log"

	"github.com/sarchlab/memsim/mem/timing"
	"github.com/sarchlab/memsim/sim/hooking"
	"github.com/sarchlab/memsim/sim/naming"
	"github.com/sarchlab/memsim/stage"
)

type pendingAccess struct {
	address uint64
	isWrite bool
}

// Comp is a behavioral memory. Writes take effect when the request is
// pushed; the timing engine only decides when the response can be popped.
// There can be at most one request in flight per address.
type Comp struct {
	naming.NamedBase
	hooking.HookableBase

	width   int
	engine  timing.Engine
	storage *Storage

	inflight map[uint64]string

	// Accesses that the engine has declined, retried every cycle in order.
	pending []pendingAccess
}

// Tick advances the timing engine and retries the declined accesses.
func (c *Comp) Tick() {
	c.engine.Tick()

	n := 0
	for n < len(c.pending) {
		a := c.pending[n]
		if !c.engine.Push(a.address, a.isWrite) {
			break
		}

		n++
	}

	c.pending = c.pending[n:]
}

// Push records the request as in flight, applies its write mask and admits
// the access to the timing engine.
func (c *Comp) Push(req stage.Request) {
	c.requestMustMatchWidth(req)

	if id, busy := c.inflight[req.Address]; busy {
		log.Panicf("mem %s: duplicated inflight request to address 0x%x, "+
			"request %s is still in flight", c.Name(), req.Address, id)
	}

	stage.TraceReqReceive(req, c)

	c.inflight[req.Address] = req.ID

	isWrite := req.IsWrite()
	if isWrite {
		c.storage.Write(req.Address, req.WriteData, req.WriteMask)
	} else {
		c.storage.Touch(req.Address)
	}

	c.admit(req.Address, isWrite)
}

func (c *Comp) requestMustMatchWidth(req stage.Request) {
	if req.WriteMask != nil && len(req.WriteMask) != c.width {
		log.Panicf("mem %s: write mask of request %s has %d bytes, "+
			"the memory width is %d",
			c.Name(), req.ID, len(req.WriteMask), c.width)
	}

	if req.IsWrite() && len(req.WriteData) != c.width {
		log.Panicf("mem %s: write data of request %s has %d bytes, "+
			"the memory width is %d",
			c.Name(), req.ID, len(req.WriteData), c.width)
	}
}

func (c *Comp) admit(address uint64, isWrite bool) {
	if len(c.pending) == 0 && c.engine.Push(address, isWrite) {
		return
	}

	c.pending = append(c.pending, pendingAccess{
		address: address,
		isWrite: isWrite,
	})
}

// Pop returns the response of an access that the timing engine reports as
// complete.
func (c *Comp) Pop() (stage.Response, bool) {
	address, ok := c.engine.Pop()
	if !ok {
		return stage.Response{}, false
	}

	id, found := c.inflight[address]
	if !found {
		log.Panicf("mem %s: timing engine completed address 0x%x, "+
			"which has no inflight request", c.Name(), address)
	}

	delete(c.inflight, address)

	rsp := stage.Response{
		ID:       id,
		ReadData: c.storage.Read(address),
	}

	stage.TraceReqComplete(rsp, c)

	return rsp, true
}

// Width returns the number of bytes of each access.
func (c *Comp) Width() int {
	return c.width
}

// NumInflight returns the number of requests waiting for their response.
func (c *Comp) NumInflight() int {
	return len(c.inflight)
}

// NumPending returns the number of accesses the timing engine has not
// accepted yet.
func (c *Comp) NumPending() int {
	return len(c.pending)
}

// Peek returns the current content at the address without any side effect.
func (c *Comp) Peek(address uint64) []byte {
	return c.storage.Read(address)
}
