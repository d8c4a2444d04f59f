package mem

// Storage keeps the content of a memory, one fixed-width entry per address.
// Entries are created, zero-filled, the first time an address is touched and
// are never evicted.
type Storage struct {
	width int
	data  map[uint64][]byte
}

// NewStorage creates an empty storage with entries of the given width.
func NewStorage(width int) *Storage {
	return &Storage{
		width: width,
		data:  make(map[uint64][]byte),
	}
}

// Width returns the number of bytes in each entry.
func (s *Storage) Width() int {
	return s.width
}

// NumEntries returns the number of addresses that have been touched.
func (s *Storage) NumEntries() int {
	return len(s.data)
}

func (s *Storage) createOrGetEntry(address uint64) []byte {
	entry, ok := s.data[address]
	if !ok {
		entry = make([]byte, s.width)
		s.data[address] = entry
	}

	return entry
}

// Write updates the bytes of the entry whose mask bit is set. Other bytes
// keep their value.
func (s *Storage) Write(address uint64, data []byte, mask []bool) {
	entry := s.createOrGetEntry(address)

	for i, dirty := range mask {
		if dirty {
			entry[i] = data[i]
		}
	}
}

// Touch makes sure the entry of the address exists.
func (s *Storage) Touch(address uint64) {
	s.createOrGetEntry(address)
}

// Read returns a copy of the entry. Untouched addresses read as zeros.
func (s *Storage) Read(address uint64) []byte {
	res := make([]byte, s.width)
	copy(res, s.data[address])

	return res
}
