// Package timing defines how a memory model learns when an access completes.
//
// The memory model keeps the content. An Engine only decides when the
// response of an admitted access becomes observable.
package timing

// Engine models the access timing of a memory.
type Engine interface {
	// Tick advances the engine by one cycle.
	Tick()

	// Push admits an access. It returns false if the engine cannot take the
	// access in this cycle; the caller retries in a later cycle.
	Push(address uint64, isWrite bool) bool

	// Pop returns one address whose access has fully completed.
	Pop() (address uint64, ok bool)
}

// WidthAware is implemented by engines that are built for a fixed access
// width, in bytes.
type WidthAware interface {
	AccessWidth() int
}

// NoDelay completes every access immediately. It is useful when only the
// functional behavior of a memory matters.
type NoDelay struct {
	queue []uint64
}

// NewNoDelay creates a NoDelay engine.
func NewNoDelay() *NoDelay {
	return &NoDelay{}
}

// Tick does nothing.
func (e *NoDelay) Tick() {}

// Push admits the access. It is always accepted.
func (e *NoDelay) Push(address uint64, _ bool) bool {
	e.queue = append(e.queue, address)
	return true
}

// Pop returns the oldest admitted address.
func (e *NoDelay) Pop() (uint64, bool) {
	if len(e.queue) == 0 {
		return 0, false
	}

	address := e.queue[0]
	e.queue = e.queue[1:]

	return address, true
}
