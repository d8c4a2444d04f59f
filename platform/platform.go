// Package platform builds memory systems from configs.
package platform

import (
	"fmt"

	"github.com/sarchlab/memsim/config"
	"github.com/sarchlab/memsim/crossbar"
	"github.com/sarchlab/memsim/delay"
	"github.com/sarchlab/memsim/mem"
	"github.com/sarchlab/memsim/mem/dram"
	"github.com/sarchlab/memsim/mem/timing"
	"github.com/sarchlab/memsim/sim/hooking"
	"github.com/sarchlab/memsim/sim/naming"
	"github.com/sarchlab/memsim/stage"
)

// Endpoint is the chain of components that serves one address range.
type Endpoint struct {
	Config config.Endpoint
	Delay  *delay.Comp
	Memory *mem.Comp

	// DRAM is nil if the endpoint has no detailed timing.
	DRAM *dram.Controller
}

// Platform is a built memory system.
type Platform struct {
	Top       stage.Stage
	TopDelay  *delay.Comp
	Crossbar  *crossbar.Comp
	Endpoints []*Endpoint
}

type hookableComponent interface {
	naming.Named
	hooking.Hookable
}

// Build creates the components that the config describes.
func Build(c *config.Config) (*Platform, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	p := &Platform{}
	xbarBuilder := crossbar.MakeBuilder()

	for _, ec := range c.Endpoints {
		ep, err := buildEndpoint(c.Width, ec)
		if err != nil {
			return nil, err
		}

		p.Endpoints = append(p.Endpoints, ep)
		xbarBuilder = xbarBuilder.WithRange(
			uint64(ec.Start), uint64(ec.End), ep.Delay)
	}

	p.Crossbar = xbarBuilder.Build("Crossbar")
	p.Top = p.Crossbar

	if c.TopDelay != nil {
		p.TopDelay = delay.MakeBuilder().
			WithInner(p.Crossbar).
			WithUpDelay(c.TopDelay.UpDelay).
			WithDownDelay(c.TopDelay.DownDelay).
			Build("TopDelay")
		p.Top = p.TopDelay
	}

	return p, nil
}

func buildEndpoint(width int, ec config.Endpoint) (*Endpoint, error) {
	ep := &Endpoint{Config: ec}

	var engine timing.Engine = timing.NewNoDelay()

	if ec.Engine == config.EngineDRAM {
		dramConfig := dram.DefaultConfig()

		if ec.DRAMConfig != "" {
			var err error

			dramConfig, err = dram.LoadConfig(ec.DRAMConfig)
			if err != nil {
				return nil, err
			}
		}

		if err := dramConfigMustFitWidth(width, ec, dramConfig); err != nil {
			return nil, err
		}

		ep.DRAM = dram.NewController(ec.Name+".DRAM", dramConfig)
		engine = dram.MakeBuilder().
			WithMemorySystem(ep.DRAM).
			WithAccessWidth(width).
			Build()
	}

	ep.Memory = mem.MakeBuilder().
		WithWidth(width).
		WithEngine(engine).
		Build(ec.Name + ".Mem")

	ep.Delay = delay.MakeBuilder().
		WithInner(ep.Memory).
		WithUpDelay(ec.UpDelay).
		WithDownDelay(ec.DownDelay).
		Build(ec.Name + ".Delay")

	return ep, nil
}

// The transactions of an access must stay in one row so that they complete
// in order.
func dramConfigMustFitWidth(
	width int,
	ec config.Endpoint,
	dc dram.Config,
) error {
	if width%dc.TransferBytes != 0 {
		return fmt.Errorf("endpoint %s: width %d is not a multiple of "+
			"the dram transfer size %d", ec.Name, width, dc.TransferBytes)
	}

	if dc.RowBytes%uint64(width) != 0 {
		return fmt.Errorf("endpoint %s: dram row size %d is not a multiple "+
			"of the width %d", ec.Name, dc.RowBytes, width)
	}

	return nil
}

func (p *Platform) hookableComponents() []hookableComponent {
	comps := []hookableComponent{}

	if p.TopDelay != nil {
		comps = append(comps, p.TopDelay)
	}

	comps = append(comps, p.Crossbar)

	for _, ep := range p.Endpoints {
		comps = append(comps, ep.Delay, ep.Memory)
	}

	return comps
}

// Components returns all the named components, from the top to the
// endpoints.
func (p *Platform) Components() []naming.Named {
	comps := []naming.Named{}
	for _, c := range p.hookableComponents() {
		comps = append(comps, c)
	}

	for _, ep := range p.Endpoints {
		if ep.DRAM != nil {
			comps = append(comps, ep.DRAM)
		}
	}

	return comps
}

// AcceptHook registers the hook on every stage.
func (p *Platform) AcceptHook(hook hooking.Hook) {
	for _, c := range p.hookableComponents() {
		c.AcceptHook(hook)
	}
}

// AddressRanges returns the ranges of the endpoints.
func (p *Platform) AddressRanges() []crossbar.AddressRange {
	return p.Crossbar.Ranges()
}

// WriteStats writes the statistics of the DRAM controllers into their
// output directories.
func (p *Platform) WriteStats() error {
	for _, ep := range p.Endpoints {
		if ep.DRAM == nil {
			continue
		}

		if err := ep.DRAM.WriteStats(ep.Config.OutputDir); err != nil {
			return fmt.Errorf("endpoint %s: %w", ep.Config.Name, err)
		}
	}

	return nil
}
