//go:build !linux

package hpd

import "fmt"

// Stub implementation for non-Linux platforms.
func openMemLine(device string, addr uint64, mask uint8) (Line, error) {
	return nil, fmt.Errorf("hpd: physical memory mapping unsupported on this platform")
}
