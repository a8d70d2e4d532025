//go:build linux

package hpd

import (
	"fmt"
	"strconv"

	"github.com/warthog618/go-gpiocdev"
)

// openGpiodLine drives HPD through a line on a GPIO character device instead
// of the FPGA register, for boards that bring the signal out on a gpiochip.
//
// The line is requested active-low so the logical value matches the HPD_N
// convention (1 = physical low = unplugged). It is requested as input first
// and reconfigured to output at its current value, so opening never changes
// the line level.
func openGpiodLine(chipPath, name string) (Line, error) {
	chip, err := gpiocdev.NewChip(chipPath)
	if err != nil {
		return nil, fmt.Errorf("hpd: open gpiochip %s: %w", chipPath, err)
	}

	offset, err := strconv.Atoi(name)
	if err != nil {
		offset, err = chip.FindLine(name)
		if err != nil {
			_ = chip.Close()
			return nil, fmt.Errorf("hpd: gpio line %q not found on %s: %w", name, chipPath, err)
		}
	}

	line, err := chip.RequestLine(offset,
		gpiocdev.AsInput,
		gpiocdev.AsActiveLow,
		gpiocdev.WithConsumer("hpdctl"))
	if err != nil {
		_ = chip.Close()
		return nil, fmt.Errorf("hpd: request gpio line %q: %w", name, err)
	}

	v, err := line.Value()
	if err != nil {
		_ = line.Close()
		_ = chip.Close()
		return nil, fmt.Errorf("hpd: read gpio line %q: %w", name, err)
	}
	if err := line.Reconfigure(gpiocdev.AsOutput(v)); err != nil {
		_ = line.Close()
		_ = chip.Close()
		return nil, fmt.Errorf("hpd: reconfigure gpio line %q as output: %w", name, err)
	}

	return &gpiodLine{chip: chip, line: line}, nil
}

type gpiodLine struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

func (g *gpiodLine) ReadBit() (uint8, error) {
	v, err := g.line.Value()
	if err != nil {
		return 0, err
	}
	if v != 0 {
		return 1, nil
	}
	return 0, nil
}

func (g *gpiodLine) WriteBit(v uint8) error {
	return g.line.SetValue(int(v))
}

func (g *gpiodLine) Close() error {
	if g.line == nil {
		return nil
	}
	err := g.line.Close()
	g.line = nil
	if g.chip != nil {
		_ = g.chip.Close()
		g.chip = nil
	}
	return err
}
