// Package harness drives a memory system with random traffic and checks the
// data that comes back.
package harness

import (
	"bytes"
	"log"
	"math/rand"

	"github.com/sarchlab/memsim/sim/hooking"
	"github.com/sarchlab/memsim/sim/idgen"
	"github.com/sarchlab/memsim/sim/naming"
	"github.com/sarchlab/memsim/stage"
)

// AddressRange is a range [Start, End) that the agent can access.
type AddressRange struct {
	Start uint64
	End   uint64
}

type pendingReq struct {
	req      stage.Request
	expected []byte
}

// An Agent generates random reads and writes and checks every response
// against a shadow copy of the memory content. It never has two requests to
// the same address in flight.
type Agent struct {
	naming.NamedBase
	hooking.HookableBase

	width  int
	ranges []AddressRange
	rng    *rand.Rand
	idGen  idgen.Generator

	ReadLeft   int
	WriteLeft  int
	Completed  int
	Mismatches int

	shadow   map[uint64][]byte
	written  []uint64
	pending  map[string]pendingReq
	busyAddr map[uint64]bool
}

// NewAgent creates an agent that accesses width-byte aligned addresses in
// the ranges.
func NewAgent(
	name string,
	width int,
	ranges []AddressRange,
	seed int64,
) *Agent {
	if width <= 0 {
		log.Panicf("agent %s: width must be positive", name)
	}

	if len(ranges) == 0 {
		log.Panicf("agent %s: no address range", name)
	}

	for _, r := range ranges {
		if r.End <= r.Start || r.End/uint64(width) <= (r.Start+uint64(width)-1)/uint64(width) {
			log.Panicf("agent %s: range [0x%x, 0x%x) cannot hold an access",
				name, r.Start, r.End)
		}
	}

	return &Agent{
		NamedBase: naming.MakeNamedBase(name),
		width:     width,
		ranges:    ranges,
		rng:       rand.New(rand.NewSource(seed)),
		idGen:     idgen.NewSequential(),
		shadow:    make(map[uint64][]byte),
		pending:   make(map[string]pendingReq),
		busyAddr:  make(map[uint64]bool),
	}
}

// Done returns true if all the requests are issued and answered.
func (a *Agent) Done() bool {
	return a.ReadLeft == 0 && a.WriteLeft == 0 && len(a.pending) == 0
}

// NumInflight returns the number of requests waiting for responses.
func (a *Agent) NumInflight() int {
	return len(a.pending)
}

// Issue pushes up to n new requests into the target. It returns the number
// of requests pushed.
func (a *Agent) Issue(target stage.Stage, n int) int {
	issued := 0

	for i := 0; i < n; i++ {
		if a.ReadLeft == 0 && a.WriteLeft == 0 {
			break
		}

		var ok bool
		if a.shouldRead() {
			ok = a.doRead(target)
		} else {
			ok = a.doWrite(target)
		}

		if ok {
			issued++
		}
	}

	return issued
}

func (a *Agent) shouldRead() bool {
	if a.ReadLeft == 0 {
		return false
	}

	if a.WriteLeft == 0 {
		return true
	}

	return a.rng.Float64() > 0.5
}

func (a *Agent) randomAddress() uint64 {
	r := a.ranges[a.rng.Intn(len(a.ranges))]

	first := (r.Start + uint64(a.width) - 1) / uint64(a.width)
	last := r.End / uint64(a.width)
	slot := first + uint64(a.rng.Int63n(int64(last-first)))

	return slot * uint64(a.width)
}

func (a *Agent) randomReadAddress() uint64 {
	if len(a.written) > 0 && a.rng.Float64() < 0.75 {
		return a.written[a.rng.Intn(len(a.written))]
	}

	return a.randomAddress()
}

func (a *Agent) doRead(target stage.Stage) bool {
	address := a.randomReadAddress()
	if a.busyAddr[address] {
		return false
	}

	req := stage.MakeRequestBuilder().
		WithID(a.idGen.Generate()).
		WithAddress(address).
		Build()

	a.send(target, req, a.expectedContent(address))
	a.ReadLeft--

	return true
}

func (a *Agent) doWrite(target stage.Stage) bool {
	address := a.randomAddress()
	if a.busyAddr[address] {
		return false
	}

	data := make([]byte, a.width)
	a.rng.Read(data)

	mask := make([]bool, a.width)
	for i := range mask {
		mask[i] = a.rng.Intn(4) != 0
	}
	mask[a.rng.Intn(a.width)] = true

	req := stage.MakeRequestBuilder().
		WithID(a.idGen.Generate()).
		WithAddress(address).
		WithData(data).
		WithMask(mask).
		Build()

	a.applyWrite(address, data, mask)
	a.send(target, req, a.expectedContent(address))
	a.WriteLeft--

	return true
}

func (a *Agent) applyWrite(address uint64, data []byte, mask []bool) {
	content, found := a.shadow[address]
	if !found {
		content = make([]byte, a.width)
		a.shadow[address] = content
		a.written = append(a.written, address)
	}

	for i, dirty := range mask {
		if dirty {
			content[i] = data[i]
		}
	}
}

func (a *Agent) expectedContent(address uint64) []byte {
	expected := make([]byte, a.width)
	copy(expected, a.shadow[address])

	return expected
}

func (a *Agent) send(target stage.Stage, req stage.Request, expected []byte) {
	a.traceReqStart(req)

	a.pending[req.ID] = pendingReq{req: req, expected: expected}
	a.busyAddr[req.Address] = true

	target.Push(req)
}

// Receive checks a response against the content the agent expects.
func (a *Agent) Receive(rsp stage.Response) {
	p, found := a.pending[rsp.ID]
	if !found {
		log.Panicf("agent %s: response %s does not match any request",
			a.Name(), rsp.ID)
	}

	delete(a.pending, rsp.ID)
	delete(a.busyAddr, p.req.Address)
	a.Completed++

	if !bytes.Equal(rsp.ReadData, p.expected) {
		a.Mismatches++
		log.Printf("agent %s: request %s to 0x%x returned %x, expecting %x",
			a.Name(), rsp.ID, p.req.Address, rsp.ReadData, p.expected)
	}

	a.traceReqEnd(rsp)
}

func (a *Agent) traceReqStart(req stage.Request) {
	if a.NumHooks() == 0 {
		return
	}

	what := "read"
	if req.IsWrite() {
		what = "write"
	}

	a.InvokeHook(hooking.HookCtx{
		Domain: a,
		Pos:    hooking.HookPosTaskStart,
		Item: hooking.TaskStart{
			ID:    req.ID,
			Kind:  "req_out",
			What:  what,
			Where: a.Name(),
		},
	})
}

func (a *Agent) traceReqEnd(rsp stage.Response) {
	if a.NumHooks() == 0 {
		return
	}

	a.InvokeHook(hooking.HookCtx{
		Domain: a,
		Pos:    hooking.HookPosTaskEnd,
		Item:   hooking.TaskEnd{ID: rsp.ID},
	})
}
