package hpd

import (
	"fmt"
	"time"
)

// DefaultRTThreshold is the longest pulse interval that still needs
// real-time scheduling to hit its timing. 50 ms of jitter headroom matches
// what the board's FPGA tooling has always used.
const DefaultRTThreshold = 50 * time.Millisecond

// Config selects and parameterizes a line backend for one HPD port.
type Config struct {
	// Backend is "mem" or "gpiod".
	Backend string

	// Device and Address/Mask configure the mem backend.
	Device  string
	Address uint64
	Mask    uint8

	// Chip and Line configure the gpiod backend. Line is a line name or a
	// numeric offset.
	Chip string
	Line string

	// RTThreshold is the interval at or below which pulse loops escalate to
	// real-time scheduling. Zero means DefaultRTThreshold.
	RTThreshold time.Duration
}

// Scheduler escalates the calling process to a real-time scheduling class.
// The escalation lasts for the rest of the process lifetime.
type Scheduler interface {
	SetRealtime() error
}

// Controller owns one HPD line and implements the board commands on it.
type Controller struct {
	line  Line
	sched Scheduler
	sleep func(time.Duration)

	threshold time.Duration
}

// New opens the configured backend and returns a controller for it.
func New(cfg Config) (*Controller, error) {
	var (
		line Line
		err  error
	)
	switch cfg.Backend {
	case "mem":
		line, err = openMemLineFn(cfg.Device, cfg.Address, cfg.Mask)
	case "gpiod":
		line, err = openGpiodLineFn(cfg.Chip, cfg.Line)
	default:
		return nil, fmt.Errorf("hpd: unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	threshold := cfg.RTThreshold
	if threshold <= 0 {
		threshold = DefaultRTThreshold
	}
	return &Controller{
		line:      line,
		sched:     newScheduler(),
		sleep:     time.Sleep,
		threshold: threshold,
	}, nil
}

func (c *Controller) Close() error {
	if c == nil || c.line == nil {
		return nil
	}
	err := c.line.Close()
	c.line = nil
	return err
}

// Plugged reports whether the HPD line is asserted. The register bit is
// inverted: clear means plugged.
func (c *Controller) Plugged() (bool, error) {
	v, err := c.line.ReadBit()
	if err != nil {
		return false, err
	}
	return v == 0, nil
}

// Plug asserts the HPD line, emulating a display plug.
func (c *Controller) Plug() error {
	return c.line.WriteBit(0)
}

// Unplug deasserts the HPD line, emulating a display unplug.
func (c *Controller) Unplug() error {
	return c.line.WriteBit(1)
}
