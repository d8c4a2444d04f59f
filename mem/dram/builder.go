package dram

import "log"

// Builder can build DRAM timing engines.
type Builder struct {
	system MemorySystem
	width  int
}

// MakeBuilder creates a builder for 64-byte accesses.
func MakeBuilder() Builder {
	return Builder{
		width: 64,
	}
}

// WithMemorySystem sets the memory system that the engine drives.
func (b Builder) WithMemorySystem(system MemorySystem) Builder {
	b.system = system
	return b
}

// WithAccessWidth sets the number of bytes of each access. It must be a
// multiple of the transfer size of the memory system.
func (b Builder) WithAccessWidth(width int) Builder {
	b.width = width
	return b
}

// Build creates a new Engine.
func (b Builder) Build() *Engine {
	if b.system == nil {
		log.Panic("dram: memory system is not set")
	}

	transferBytes := b.system.TransferBytes()
	if transferBytes <= 0 {
		log.Panicf("dram: invalid transfer size %d", transferBytes)
	}

	if b.width <= 0 || b.width%transferBytes != 0 {
		log.Panicf("dram: access width %d is not a multiple of "+
			"the transfer size %d", b.width, transferBytes)
	}

	multiplicity := b.width / transferBytes

	return &Engine{
		system: b.system,
		width:  b.width,
		table:  newProgressTable(uint64(transferBytes), multiplicity),
	}
}
