package hooking

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BusyTimeTracer", func() {
	var (
		timeTeller *stubTimeTeller
		t          *BusyTimeTracer
	)

	BeforeEach(func() {
		timeTeller = &stubTimeTeller{}
		t = NewBusyTimeTracer(timeTeller, nil)
	})

	It("should track busy time, one task", func() {
		timeTeller.now = 1
		t.StartTask(TaskStart{ID: "1"})

		timeTeller.now = 2
		t.EndTask(TaskEnd{ID: "1"})

		Expect(t.BusyTime()).To(Equal(uint64(1)))
	})

	It("should track busy time, two tasks", func() {
		timeTeller.now = 1
		t.StartTask(TaskStart{ID: "1"})
		timeTeller.now = 2
		t.EndTask(TaskEnd{ID: "1"})

		timeTeller.now = 3
		t.StartTask(TaskStart{ID: "2"})
		timeTeller.now = 4
		t.EndTask(TaskEnd{ID: "2"})

		Expect(t.BusyTime()).To(Equal(uint64(2)))
	})

	It("should count overlapping tasks once", func() {
		timeTeller.now = 1
		t.StartTask(TaskStart{ID: "1"})
		timeTeller.now = 3
		t.StartTask(TaskStart{ID: "2"})
		timeTeller.now = 6
		t.EndTask(TaskEnd{ID: "1"})
		timeTeller.now = 10
		t.EndTask(TaskEnd{ID: "2"})

		Expect(t.BusyTime()).To(Equal(uint64(9)))
	})

	It("should include the open busy period", func() {
		timeTeller.now = 4
		t.StartTask(TaskStart{ID: "1"})
		timeTeller.now = 7

		Expect(t.BusyTime()).To(Equal(uint64(3)))
	})

	It("should skip filtered tasks", func() {
		t = NewBusyTimeTracer(timeTeller, func(ts TaskStart) bool {
			return ts.What == "write"
		})

		t.StartTask(TaskStart{ID: "1", What: "read"})
		timeTeller.now = 5
		t.EndTask(TaskEnd{ID: "1"})

		Expect(t.BusyTime()).To(Equal(uint64(0)))
	})
})
