package crossbar

import (
	"log"
	"sort"

	"github.com/sarchlab/memsim/sim/naming"
	"github.com/sarchlab/memsim/stage"
)

// A Builder can build crossbars. Ranges can be added in any order.
type Builder struct {
	ranges []AddressRange
}

// MakeBuilder creates a builder without any range.
func MakeBuilder() Builder {
	return Builder{}
}

// WithRange adds a child stage that owns the addresses in [start, end).
func (b Builder) WithRange(start, end uint64, child stage.Stage) Builder {
	ranges := make([]AddressRange, len(b.ranges), len(b.ranges)+1)
	copy(ranges, b.ranges)

	b.ranges = append(ranges, AddressRange{
		Start: start,
		End:   end,
		Child: child,
	})

	return b
}

// Build creates a crossbar. The ranges must be non-empty and pairwise
// disjoint.
func (b Builder) Build(name string) *Comp {
	ranges := make([]AddressRange, len(b.ranges))
	copy(ranges, b.ranges)

	sort.Slice(ranges, func(i, j int) bool {
		return ranges[i].Start < ranges[j].Start
	})

	for i, r := range ranges {
		if r.Child == nil {
			log.Panicf("crossbar %s: range [0x%x, 0x%x) has no child",
				name, r.Start, r.End)
		}

		if r.End <= r.Start {
			log.Panicf("crossbar %s: range [0x%x, 0x%x) is empty",
				name, r.Start, r.End)
		}

		if i > 0 && ranges[i-1].End > r.Start {
			log.Panicf("crossbar %s: range [0x%x, 0x%x) overlaps [0x%x, 0x%x)",
				name, r.Start, r.End, ranges[i-1].Start, ranges[i-1].End)
		}
	}

	return &Comp{
		NamedBase: naming.MakeNamedBase(name),
		ranges:    ranges,
	}
}
