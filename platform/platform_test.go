package platform

import (
	"os"
	"path/filepath"

	"github.com/sarchlab/memsim/config"
	"github.com/sarchlab/memsim/harness"
	"github.com/sarchlab/memsim/mem/dram"
	"github.com/sarchlab/memsim/sim/hooking"
	"github.com/sarchlab/memsim/stage"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type cycleCounter struct {
	now uint64
}

func (c *cycleCounter) Now() uint64 {
	return c.now
}

func twoEndpointConfig() *config.Config {
	c := config.Default()
	c.Width = 64
	c.Endpoints = []config.Endpoint{
		{
			Name:      "Low",
			Start:     0x8000_0000,
			End:       0x8000_2000,
			UpDelay:   3,
			DownDelay: 5,
			Engine:    config.EngineIdeal,
		},
		{
			Name:      "High",
			Start:     0x8000_2000,
			End:       0x8000_4000,
			UpDelay:   4,
			DownDelay: 2,
			Engine:    config.EngineIdeal,
		},
	}

	return c
}

func fill(width int, value byte) []byte {
	data := make([]byte, width)
	for i := range data {
		data[i] = value
	}

	return data
}

var _ = Describe("Platform", func() {
	var (
		c *config.Config
		p *Platform
	)

	BeforeEach(func() {
		c = twoEndpointConfig()
	})

	It("should return the written data from both endpoints", func() {
		var err error
		p, err = Build(c)
		Expect(err).NotTo(HaveOccurred())

		p.Top.Push(stage.MakeRequestBuilder().
			WithID("1").
			WithAddress(0x8000_0040).
			WithData(fill(64, 0xaa)).
			Build())
		p.Top.Push(stage.MakeRequestBuilder().
			WithID("2").
			WithAddress(0x8000_2040).
			WithData(fill(64, 0xbb)).
			Build())

		responses := map[string]stage.Response{}
		arrival := map[string]int{}

		for tick := 1; tick <= 20 && len(responses) < 2; tick++ {
			p.Top.Tick()

			for {
				rsp, ok := p.Top.Pop()
				if !ok {
					break
				}

				responses[rsp.ID] = rsp
				arrival[rsp.ID] = tick
			}
		}

		Expect(responses).To(HaveLen(2))
		Expect(responses["1"].ReadData).To(Equal(fill(64, 0xaa)))
		Expect(responses["2"].ReadData).To(Equal(fill(64, 0xbb)))
		Expect(arrival["1"]).To(Equal(8))
		Expect(arrival["2"]).To(Equal(6))
	})

	It("should route each request to the endpoint that owns it", func() {
		var err error
		p, err = Build(c)
		Expect(err).NotTo(HaveOccurred())

		p.Top.Push(stage.MakeRequestBuilder().
			WithID("1").
			WithAddress(0x8000_2000).
			WithData(fill(64, 0x11)).
			Build())

		low, high := p.Endpoints[0], p.Endpoints[1]

		for i := 0; i < 10; i++ {
			p.Top.Tick()
		}

		Expect(high.Memory.Peek(0x8000_2000)).To(Equal(fill(64, 0x11)))
		Expect(low.Memory.Peek(0x8000_2000)).To(Equal(fill(64, 0)))
		Expect(low.Delay.NumPendingRequests()).To(Equal(0))
	})

	It("should panic on addresses no endpoint owns", func() {
		p, _ = Build(c)

		Expect(func() {
			p.Top.Push(stage.Request{ID: "1", Address: 0x8000_4000})
		}).To(Panic())
	})

	It("should wrap the crossbar with the top delay", func() {
		c.TopDelay = &config.Delay{UpDelay: 1, DownDelay: 1}

		p, _ = Build(c)

		Expect(p.Top).To(BeIdenticalTo(p.TopDelay))
		Expect(p.TopDelay.Inner()).To(BeIdenticalTo(p.Crossbar))
	})

	It("should list components and ranges", func() {
		p, _ = Build(c)

		names := []string{}
		for _, comp := range p.Components() {
			names = append(names, comp.Name())
		}

		Expect(names).To(Equal([]string{
			"Crossbar", "Low.Delay", "Low.Mem", "High.Delay", "High.Mem",
		}))
		Expect(p.AddressRanges()).To(HaveLen(2))
	})

	It("should hook every stage", func() {
		p, _ = Build(c)

		tracer := hooking.NewLatencyTracer(&cycleCounter{}, nil)
		p.AcceptHook(tracer)

		p.Top.Push(stage.Request{ID: "1", Address: 0x8000_0000})
		for i := 0; i < 10; i++ {
			p.Top.Tick()
			p.Top.Pop()
		}

		Expect(tracer.TotalCount()).To(Equal(uint64(3)))
	})

	It("should reject invalid configs", func() {
		c.Endpoints[1].Start = 0x8000_1000

		_, err := Build(c)

		Expect(err).To(HaveOccurred())
	})

	It("should reject dram parts that do not fit the width", func() {
		dir := GinkgoT().TempDir()
		dramPath := filepath.Join(dir, "dram.json")
		Expect(os.WriteFile(dramPath,
			[]byte(`{"transfer_bytes": 128, "row_bytes": 2048}`), 0o644)).
			To(Succeed())

		c.Endpoints[1].Engine = config.EngineDRAM
		c.Endpoints[1].DRAMConfig = dramPath
		c.Endpoints[1].OutputDir = dir

		_, err := Build(c)

		Expect(err).To(HaveOccurred())
	})

	It("should run traffic over a dram endpoint", func() {
		dir := GinkgoT().TempDir()
		c.Endpoints[1].Engine = config.EngineDRAM
		c.Endpoints[1].OutputDir = dir

		var err error
		p, err = Build(c)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Endpoints[1].DRAM).NotTo(BeNil())

		ranges := []harness.AddressRange{}
		for _, r := range p.AddressRanges() {
			ranges = append(ranges, harness.AddressRange{
				Start: r.Start,
				End:   r.End,
			})
		}

		agent := harness.NewAgent("Agent", c.Width, ranges, 3)
		agent.ReadLeft = 300
		agent.WriteLeft = 300

		driver := harness.NewDriver(p.Top, agent, 2)
		Expect(driver.Run(1_000_000)).To(Succeed())
		Expect(agent.Mismatches).To(Equal(0))

		Expect(p.WriteStats()).To(Succeed())

		_, err = os.Stat(filepath.Join(dir, dram.StatsFileName))
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Endpoints[1].DRAM.Stats().Reads +
			p.Endpoints[1].DRAM.Stats().Writes).To(BeNumerically(">", 0))
	})
})
