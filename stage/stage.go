// Package stage defines the contract shared by every pipeline stage of the
// memory subsystem and the requests and responses that flow through it.
//
// A stage is driven by a single caller, one cycle at a time. Tick advances
// the stage by exactly one cycle, Push hands it a request and Pop drains a
// ready response. None of them block. Stages compose by nesting: a stage
// exclusively owns its children and ticks them before doing its own work.
package stage

// Stage is one unit of the simulated memory pipeline.
type Stage interface {
	// Tick advances the stage by one cycle. Owned children are ticked first.
	Tick()

	// Push hands a request to the stage. A stage never silently drops an
	// accepted request. Precondition violations are fatal.
	Push(req Request)

	// Pop returns at most one ready response. The second return value is
	// false if nothing is ready. Pop does not advance time.
	Pop() (Response, bool)
}

// Request is a read or write access to a single address. WriteMask and
// WriteData have one entry per byte of the access width. A request without
// any mask bit set is a pure read.
type Request struct {
	ID        string
	Address   uint64
	WriteMask []bool
	WriteData []byte
}

// IsWrite returns true if any byte of the request is written.
func (r Request) IsWrite() bool {
	for _, b := range r.WriteMask {
		if b {
			return true
		}
	}

	return false
}

// Response answers the request with the same ID. For a write, ReadData is the
// content after the write was applied.
type Response struct {
	ID       string
	ReadData []byte
}

// RequestBuilder can build requests.
type RequestBuilder struct {
	id      string
	address uint64
	mask    []bool
	data    []byte
}

// MakeRequestBuilder creates a RequestBuilder for a read of address 0.
func MakeRequestBuilder() RequestBuilder {
	return RequestBuilder{}
}

// WithID sets the correlation ID of the request to build.
func (b RequestBuilder) WithID(id string) RequestBuilder {
	b.id = id
	return b
}

// WithAddress sets the address of the request to build.
func (b RequestBuilder) WithAddress(address uint64) RequestBuilder {
	b.address = address
	return b
}

// WithData sets the data of the request to build. Unless a mask is given, all
// the bytes are written.
func (b RequestBuilder) WithData(data []byte) RequestBuilder {
	b.data = data
	return b
}

// WithMask sets the write mask of the request to build.
func (b RequestBuilder) WithMask(mask []bool) RequestBuilder {
	b.mask = mask
	return b
}

// Build creates a new Request.
func (b RequestBuilder) Build() Request {
	req := Request{
		ID:        b.id,
		Address:   b.address,
		WriteData: b.data,
		WriteMask: b.mask,
	}

	if req.WriteMask == nil && req.WriteData != nil {
		req.WriteMask = make([]bool, len(req.WriteData))
		for i := range req.WriteMask {
			req.WriteMask[i] = true
		}
	}

	return req
}
