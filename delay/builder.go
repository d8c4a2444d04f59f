package delay

import (
	"log"

	"github.com/sarchlab/memsim/sim/naming"
	"github.com/sarchlab/memsim/stage"
)

// A Builder can build delay components.
type Builder struct {
	inner     stage.Stage
	upDelay   uint64
	downDelay uint64
}

// MakeBuilder creates a builder without delays.
func MakeBuilder() Builder {
	return Builder{}
}

// WithInner sets the stage that the component wraps.
func (b Builder) WithInner(inner stage.Stage) Builder {
	b.inner = inner
	return b
}

// WithUpDelay sets the number of cycles added to the response path.
func (b Builder) WithUpDelay(cycles uint64) Builder {
	b.upDelay = cycles
	return b
}

// WithDownDelay sets the number of cycles added to the request path.
func (b Builder) WithDownDelay(cycles uint64) Builder {
	b.downDelay = cycles
	return b
}

// Build creates a delay component.
func (b Builder) Build(name string) *Comp {
	if b.inner == nil {
		log.Panicf("delay %s: inner stage is not set", name)
	}

	return &Comp{
		NamedBase: naming.MakeNamedBase(name),
		inner:     b.inner,
		upDelay:   b.upDelay,
		downDelay: b.downDelay,
	}
}
