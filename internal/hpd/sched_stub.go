//go:build !linux

package hpd

import "fmt"

type stubScheduler struct{}

func newScheduler() Scheduler { return stubScheduler{} }

func (stubScheduler) SetRealtime() error {
	return fmt.Errorf("hpd: real-time scheduling unsupported on this platform")
}
