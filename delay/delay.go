// Package delay provides a stage that adds fixed request and response
// latencies in front of another stage.
package delay

import (
	"github.com/sarchlab/memsim/sim/hooking"
	"github.com/sarchlab/memsim/sim/naming"
	"github.com/sarchlab/memsim/stage"
)

type timedReq struct {
	releaseCycle uint64
	req          stage.Request
}

type timedRsp struct {
	releaseCycle uint64
	rsp          stage.Response
}

// Comp models the wires and pipeline registers in front of a stage. A request
// pushed at cycle t reaches the inner stage at cycle t+DownDelay. A response
// that the inner stage produces at cycle t can be popped at cycle t+UpDelay.
// Neither content nor relative order is changed.
type Comp struct {
	naming.NamedBase
	hooking.HookableBase

	inner     stage.Stage
	upDelay   uint64
	downDelay uint64

	cycle    uint64
	downlink []timedReq
	uplink   []timedRsp
}

// Tick ticks the inner stage, forwards the requests whose delay has elapsed
// and collects the responses that the inner stage has ready.
func (c *Comp) Tick() {
	c.inner.Tick()
	c.cycle++

	c.releaseRequests()
	c.collectResponses()
}

func (c *Comp) releaseRequests() {
	n := 0
	for n < len(c.downlink) && c.downlink[n].releaseCycle <= c.cycle {
		c.inner.Push(c.downlink[n].req)
		n++
	}

	c.downlink = c.downlink[n:]
}

func (c *Comp) collectResponses() {
	for {
		rsp, ok := c.inner.Pop()
		if !ok {
			return
		}

		c.uplink = append(c.uplink, timedRsp{
			releaseCycle: c.cycle + c.upDelay,
			rsp:          rsp,
		})
	}
}

// Push queues a request. It is never rejected.
func (c *Comp) Push(req stage.Request) {
	stage.TraceReqReceive(req, c)

	c.downlink = append(c.downlink, timedReq{
		releaseCycle: c.cycle + c.downDelay,
		req:          req,
	})
}

// Pop returns the oldest response if its delay has elapsed.
func (c *Comp) Pop() (stage.Response, bool) {
	if len(c.uplink) == 0 || c.uplink[0].releaseCycle > c.cycle {
		return stage.Response{}, false
	}

	rsp := c.uplink[0].rsp
	c.uplink = c.uplink[1:]

	stage.TraceReqComplete(rsp, c)

	return rsp, true
}

// Inner returns the wrapped stage.
func (c *Comp) Inner() stage.Stage {
	return c.inner
}

// CurrentCycle returns the number of cycles the component has been ticked.
func (c *Comp) CurrentCycle() uint64 {
	return c.cycle
}

// NumPendingRequests returns the number of requests still on the way down.
func (c *Comp) NumPendingRequests() int {
	return len(c.downlink)
}

// NumPendingResponses returns the number of responses still on the way up.
func (c *Comp) NumPendingResponses() int {
	return len(c.uplink)
}
