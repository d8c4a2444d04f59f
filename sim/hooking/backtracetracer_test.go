package hooking

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BackTraceTracer", func() {
	var (
		timeTeller *stubTimeTeller
		t          *BackTraceTracer
	)

	BeforeEach(func() {
		timeTeller = &stubTimeTeller{}
		t = NewBackTraceTracer(timeTeller)
	})

	It("should trace a single task", func() {
		t.StartTask(TaskStart{ID: "1"})

		Expect(t.tracingTasks).To(HaveLen(1))
		Expect(t.tracingTasks["1"].ParentID).To(Equal(""))
	})

	It("should end tasks", func() {
		t.StartTask(TaskStart{ID: "1"})
		t.StartTask(TaskStart{ID: "2", ParentID: "1"})
		t.StartTask(TaskStart{ID: "3", ParentID: "2"})

		t.EndTask(TaskEnd{ID: "3"})
		t.EndTask(TaskEnd{ID: "2"})

		Expect(t.tracingTasks).To(HaveLen(1))
		Expect(t.tracingTasks["1"].ParentID).To(Equal(""))
	})

	It("should list inflight tasks oldest first", func() {
		timeTeller.now = 5
		t.StartTask(TaskStart{ID: "b"})
		timeTeller.now = 2
		t.StartTask(TaskStart{ID: "a"})

		tasks := t.InflightTasks()

		Expect(tasks).To(HaveLen(2))
		Expect(tasks[0].ID).To(Equal("a"))
		Expect(tasks[0].StartCycle).To(Equal(uint64(2)))
		Expect(tasks[1].ID).To(Equal("b"))
	})

	It("should dump the chain of parents", func() {
		t.StartTask(TaskStart{
			ID: "1", Kind: "req_in", What: "read", Where: "Top",
		})
		t.StartTask(TaskStart{
			ID: "2", ParentID: "1", Kind: "req_in", What: "read", Where: "Mem",
		})

		buf := new(bytes.Buffer)
		t.DumpBackTrace(buf, "2")

		Expect(buf.String()).To(Equal(
			"req_in-read@Mem since cycle 0\nreq_in-read@Top since cycle 0\n"))
	})
})
