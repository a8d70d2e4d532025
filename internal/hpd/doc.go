// Package hpd drives the Hot-Plug-Detect line of a display-test board input.
//
// The line is exposed as a single register bit with inverted (HPD_N)
// semantics: bit set means deasserted/unplugged, bit clear means
// asserted/plugged. Two backends exist:
//   - mem: the FPGA GPIO register, memory-mapped through /dev/mem
//   - gpiod: a line on a GPIO character device, requested active-low
//
// Pulse trains with intervals at or below the configured threshold escalate
// the process to maximum-priority SCHED_FIFO before the first write, since
// plain sleeps carry too much jitter at that scale.
package hpd
