//go:build !linux

package hpd

import "fmt"

// Stub implementation for non-Linux platforms.
func openGpiodLine(chipPath, name string) (Line, error) {
	return nil, fmt.Errorf("hpd: gpio character device unsupported on this platform")
}
