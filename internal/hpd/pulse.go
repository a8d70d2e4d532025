package hpd

import (
	"fmt"
	"time"
)

// PulseParams describes a repeat_pulse run. All durations are expressed in
// the units the CLI takes: microseconds for the two intervals.
type PulseParams struct {
	DeassertUsec int
	AssertUsec   int
	Count        int
	EndLevel     int
}

// Validate checks the parameter ranges. It is called again by RepeatPulse,
// so a controller can never be driven with out-of-range values even when
// the CLI layer is bypassed.
func (p PulseParams) Validate() error {
	if p.DeassertUsec <= 0 {
		return fmt.Errorf("hpd: deassert interval must be a positive number of usec")
	}
	if p.AssertUsec <= 0 {
		return fmt.Errorf("hpd: assert interval must be a positive number of usec")
	}
	if p.Count <= 0 {
		return fmt.Errorf("hpd: repeat count must be positive")
	}
	if p.EndLevel != 0 && p.EndLevel != 1 {
		return fmt.Errorf("hpd: end level must be 0 or 1")
	}
	return nil
}

// RepeatPulse fires Count HPD pulses (L->H->L->...): each iteration
// deasserts, sleeps DeassertUsec, asserts, sleeps AssertUsec. Short
// intervals escalate the process to real-time scheduling first.
//
// Only the low end level is forced afterwards; a high end level relies on
// the last iteration having left the line asserted. The asymmetry is
// long-standing board behavior that test suites depend on.
func (c *Controller) RepeatPulse(p PulseParams) error {
	if err := p.Validate(); err != nil {
		return err
	}

	deassert := time.Duration(p.DeassertUsec) * time.Microsecond
	assert := time.Duration(p.AssertUsec) * time.Microsecond
	if deassert <= c.threshold || assert <= c.threshold {
		if err := c.sched.SetRealtime(); err != nil {
			return err
		}
	}

	for i := 0; i < p.Count; i++ {
		if err := c.line.WriteBit(1); err != nil {
			return err
		}
		c.sleep(deassert)
		if err := c.line.WriteBit(0); err != nil {
			return err
		}
		c.sleep(assert)
	}

	if p.EndLevel == 0 {
		return c.line.WriteBit(1)
	}
	return nil
}

// FirePulses fires a pulse train of mixed widths, starting at low:
// widths[0] is the first low segment, widths[1] the first high segment, and
// so on, with one final unslept toggle after the last width. An even number
// of widths ends unplugged, an odd number ends plugged.
func (c *Controller) FirePulses(widths []time.Duration) error {
	if len(widths) == 0 {
		return fmt.Errorf("hpd: at least one pulse width is required")
	}
	needRT := false
	for _, w := range widths {
		if w <= 0 {
			return fmt.Errorf("hpd: pulse widths must be positive")
		}
		if w <= c.threshold {
			needRT = true
		}
	}
	if needRT {
		if err := c.sched.SetRealtime(); err != nil {
			return err
		}
	}

	for i := 0; i <= len(widths); i++ {
		v := uint8(1)
		if i%2 == 1 {
			v = 0
		}
		if err := c.line.WriteBit(v); err != nil {
			return err
		}
		if i < len(widths) {
			c.sleep(widths[i])
		}
	}
	return nil
}
