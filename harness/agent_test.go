package harness

import (
	"github.com/sarchlab/memsim/stage"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Agent", func() {
	var (
		agent  *Agent
		target *blackHole
	)

	BeforeEach(func() {
		agent = NewAgent("Agent", 16, []AddressRange{
			{Start: 0x1000, End: 0x1040},
			{Start: 0x8000, End: 0x8100},
		}, 1)
		target = &blackHole{}
	})

	It("should panic on ranges that cannot hold an access", func() {
		Expect(func() {
			NewAgent("Agent", 64, []AddressRange{{Start: 0, End: 32}}, 1)
		}).To(Panic())
	})

	It("should issue aligned requests in the ranges", func() {
		agent.ReadLeft = 50
		agent.WriteLeft = 50

		for i := 0; i < 200; i++ {
			agent.Issue(target, 1)
		}

		Expect(target.received).NotTo(BeEmpty())
		for _, req := range target.received {
			Expect(req.Address % 16).To(Equal(uint64(0)))

			inLow := req.Address >= 0x1000 && req.Address < 0x1040
			inHigh := req.Address >= 0x8000 && req.Address < 0x8100
			Expect(inLow || inHigh).To(BeTrue())
		}
	})

	It("should never have two requests to one address in flight", func() {
		agent.ReadLeft = 100
		agent.WriteLeft = 100

		for i := 0; i < 100; i++ {
			agent.Issue(target, 4)
		}

		seen := make(map[uint64]bool)
		for _, req := range target.received {
			Expect(seen[req.Address]).To(BeFalse())
			seen[req.Address] = true
		}

		Expect(agent.NumInflight()).To(Equal(len(target.received)))
	})

	It("should stop when there is nothing left", func() {
		agent.WriteLeft = 2

		for i := 0; i < 10; i++ {
			agent.Issue(target, 2)
		}

		Expect(target.received).To(HaveLen(2))
		Expect(agent.Done()).To(BeFalse())
	})

	It("should expect the written data", func() {
		agent.WriteLeft = 1
		agent.Issue(target, 1)

		req := target.received[0]
		expected := make([]byte, 16)
		for i, dirty := range req.WriteMask {
			if dirty {
				expected[i] = req.WriteData[i]
			}
		}

		agent.Receive(stage.Response{ID: req.ID, ReadData: expected})

		Expect(agent.Mismatches).To(Equal(0))
		Expect(agent.Completed).To(Equal(1))
		Expect(agent.Done()).To(BeTrue())
	})

	It("should count mismatches", func() {
		agent.ReadLeft = 1
		agent.Issue(target, 1)

		req := target.received[0]
		data := make([]byte, 16)
		data[3] = 1

		agent.Receive(stage.Response{ID: req.ID, ReadData: data})

		Expect(agent.Mismatches).To(Equal(1))
	})

	It("should panic on unknown responses", func() {
		Expect(func() {
			agent.Receive(stage.Response{ID: "404"})
		}).To(Panic())
	})
})
