//go:build linux

package hpd

import (
	"fmt"

	"golang.org/x/sys/unix"
)

type fifoScheduler struct{}

func newScheduler() Scheduler { return fifoScheduler{} }

// SetRealtime moves the whole process to SCHED_FIFO at the maximum priority
// the kernel offers. Requires CAP_SYS_NICE (root on the test board, same as
// /dev/mem access).
func (fifoScheduler) SetRealtime() error {
	max, _, errno := unix.Syscall(unix.SYS_SCHED_GET_PRIORITY_MAX,
		uintptr(unix.SCHED_FIFO), 0, 0)
	if errno != 0 {
		return fmt.Errorf("hpd: sched_get_priority_max: %w", errno)
	}
	attr := unix.SchedAttr{
		Policy:   unix.SCHED_FIFO,
		Priority: uint32(max),
	}
	if err := unix.SchedSetAttr(0, &attr, 0); err != nil {
		return fmt.Errorf("hpd: sched_setattr(SCHED_FIFO, %d): %w", max, err)
	}
	return nil
}
