package mem

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Storage", func() {
	var s *Storage

	BeforeEach(func() {
		s = NewStorage(4)
	})

	It("should read zeros from untouched addresses", func() {
		Expect(s.Read(0x100)).To(Equal([]byte{0, 0, 0, 0}))
		Expect(s.NumEntries()).To(Equal(0))
	})

	It("should only write masked bytes", func() {
		s.Write(0x100, []byte{1, 2, 3, 4}, []bool{true, true, true, true})
		s.Write(0x100, []byte{9, 9, 9, 9}, []bool{false, true, false, true})

		Expect(s.Read(0x100)).To(Equal([]byte{1, 9, 3, 9}))
	})

	It("should return a copy", func() {
		s.Write(0x100, []byte{1, 2, 3, 4}, []bool{true, true, true, true})

		data := s.Read(0x100)
		data[0] = 100

		Expect(s.Read(0x100)).To(Equal([]byte{1, 2, 3, 4}))
	})

	It("should create a zero entry on touch", func() {
		s.Touch(0x200)

		Expect(s.NumEntries()).To(Equal(1))
		Expect(s.Read(0x200)).To(Equal([]byte{0, 0, 0, 0}))
	})
})
