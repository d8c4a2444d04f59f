package dram

import (
	"go.uber.org/mock/gomock"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Builder", func() {
	var (
		mockCtrl *gomock.Controller
		system   *MockMemorySystem
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		system = NewMockMemorySystem(mockCtrl)
		system.EXPECT().TransferBytes().Return(32).AnyTimes()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should panic without a memory system", func() {
		Expect(func() { MakeBuilder().Build() }).To(Panic())
	})

	It("should panic if the width is not a multiple of the transfer size",
		func() {
			Expect(func() {
				MakeBuilder().
					WithMemorySystem(system).
					WithAccessWidth(48).
					Build()
			}).To(Panic())
		})

	It("should compute the multiplicity", func() {
		e := MakeBuilder().
			WithMemorySystem(system).
			WithAccessWidth(128).
			Build()

		Expect(e.Multiplicity()).To(Equal(4))
		Expect(e.AccessWidth()).To(Equal(128))
	})
})

var _ = Describe("Engine", func() {
	var (
		mockCtrl *gomock.Controller
		system   *MockMemorySystem
		e        *Engine
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		system = NewMockMemorySystem(mockCtrl)
		system.EXPECT().TransferBytes().Return(32).AnyTimes()

		e = MakeBuilder().
			WithMemorySystem(system).
			WithAccessWidth(64).
			Build()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	acceptAll := func() {
		system.EXPECT().CanAdd(gomock.Any(), gomock.Any()).
			Return(true).AnyTimes()
		system.EXPECT().Add(gomock.Any(), gomock.Any()).
			Return(true).AnyTimes()
	}

	It("should panic on misaligned addresses", func() {
		Expect(func() { e.Push(0x20, false) }).To(Panic())
	})

	It("should panic on duplicated addresses", func() {
		acceptAll()

		e.Push(0x40, false)

		Expect(func() { e.Push(0x40, true) }).To(Panic())
	})

	It("should send transactions in ascending order", func() {
		gomock.InOrder(
			system.EXPECT().CanAdd(uint64(0x40), true).Return(true),
			system.EXPECT().Add(uint64(0x40), true).Return(true),
			system.EXPECT().CanAdd(uint64(0x60), true).Return(true),
			system.EXPECT().Add(uint64(0x60), true).Return(true),
		)

		Expect(e.Push(0x40, true)).To(BeTrue())
		Expect(e.NumInflight()).To(Equal(1))
	})

	It("should retry declined transactions on tick", func() {
		gomock.InOrder(
			system.EXPECT().CanAdd(uint64(0x40), false).Return(true),
			system.EXPECT().Add(uint64(0x40), false).Return(true),
			system.EXPECT().CanAdd(uint64(0x60), false).Return(false),
			system.EXPECT().CanAdd(uint64(0x60), false).Return(false),
			system.EXPECT().Tick(gomock.Any()),
			system.EXPECT().CanAdd(uint64(0x60), false).Return(true),
			system.EXPECT().Add(uint64(0x60), false).Return(false),
			system.EXPECT().Tick(gomock.Any()),
			system.EXPECT().CanAdd(uint64(0x60), false).Return(true),
			system.EXPECT().Add(uint64(0x60), false).Return(true),
			system.EXPECT().CanAdd(uint64(0x80), false).Return(true),
			system.EXPECT().Add(uint64(0x80), false).Return(true),
			system.EXPECT().CanAdd(uint64(0xa0), false).Return(true),
			system.EXPECT().Add(uint64(0xa0), false).Return(true),
		)

		Expect(e.Push(0x40, false)).To(BeTrue())
		Expect(e.Push(0x80, false)).To(BeTrue())

		e.Tick()
		e.Tick()

		Expect(e.issuing).To(BeEmpty())
	})

	It("should complete an access after all its transactions", func() {
		acceptAll()
		system.EXPECT().Tick(gomock.Any()).
			Do(func(sink CompletionSink) {
				sink.Complete(0x40, false)
			})
		system.EXPECT().Tick(gomock.Any()).
			Do(func(sink CompletionSink) {
				sink.Complete(0x60, false)
			})

		e.Push(0x40, false)

		e.Tick()
		_, ok := e.Pop()
		Expect(ok).To(BeFalse())

		e.Tick()
		addr, ok := e.Pop()
		Expect(ok).To(BeTrue())
		Expect(addr).To(Equal(uint64(0x40)))
		Expect(e.NumInflight()).To(Equal(0))
	})

	It("should report accesses in completion order", func() {
		acceptAll()
		system.EXPECT().Tick(gomock.Any()).
			Do(func(sink CompletionSink) {
				sink.Complete(0x80, true)
				sink.Complete(0x40, false)
				sink.Complete(0xa0, true)
				sink.Complete(0x60, false)
			})

		e.Push(0x40, false)
		e.Push(0x80, true)
		e.Tick()

		first, _ := e.Pop()
		second, _ := e.Pop()

		Expect(first).To(Equal(uint64(0x80)))
		Expect(second).To(Equal(uint64(0x40)))
	})

	It("should panic on out-of-order transactions", func() {
		acceptAll()
		e.Push(0x40, false)

		Expect(func() { e.table.Complete(0x60, false) }).To(Panic())
	})

	It("should panic on unknown transactions", func() {
		acceptAll()
		e.Push(0x40, false)

		Expect(func() { e.table.Complete(0x100, false) }).To(Panic())
	})

	It("should panic on transactions that are not sent", func() {
		system.EXPECT().CanAdd(gomock.Any(), gomock.Any()).Return(false)
		e.Push(0x40, false)

		Expect(func() { e.table.Complete(0x40, false) }).To(Panic())
	})

	It("should panic if the direction does not match", func() {
		acceptAll()
		e.Push(0x40, false)

		Expect(func() { e.table.Complete(0x40, true) }).To(Panic())
	})
})
