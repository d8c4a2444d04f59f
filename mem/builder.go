package mem

import (
	"log"

	"github.com/sarchlab/memsim/mem/timing"
	"github.com/sarchlab/memsim/sim/naming"
)

// A Builder can build memory models.
type Builder struct {
	width  int
	engine timing.Engine
}

// MakeBuilder creates a builder with a 64-byte width and no timing delay.
func MakeBuilder() Builder {
	return Builder{
		width: 64,
	}
}

// WithWidth sets the number of bytes of each access.
func (b Builder) WithWidth(width int) Builder {
	b.width = width
	return b
}

// WithEngine sets the engine that decides when accesses complete.
func (b Builder) WithEngine(engine timing.Engine) Builder {
	b.engine = engine
	return b
}

// Build creates a memory model.
func (b Builder) Build(name string) *Comp {
	if b.width <= 0 {
		log.Panicf("mem %s: width must be positive, got %d", name, b.width)
	}

	engine := b.engine
	if engine == nil {
		engine = timing.NewNoDelay()
	}

	if wa, ok := engine.(timing.WidthAware); ok && wa.AccessWidth() != b.width {
		log.Panicf("mem %s: timing engine is built for %d-byte accesses, "+
			"the memory width is %d", name, wa.AccessWidth(), b.width)
	}

	return &Comp{
		NamedBase: naming.MakeNamedBase(name),
		width:     b.width,
		engine:    engine,
		storage:   NewStorage(b.width),
		inflight:  make(map[uint64]string),
	}
}
