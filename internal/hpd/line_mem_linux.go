//go:build linux

package hpd

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// openMemLine maps the page of physical memory containing the HPD register
// and returns a Line addressing one mask bit in it.
//
// The register is byte-wide on the FPGA bus, so all accesses go through a
// single byte of the mapping.
func openMemLine(device string, addr uint64, mask uint8) (Line, error) {
	f, err := os.OpenFile(device, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("hpd: open %s: %w", device, err)
	}

	pageSize := uint64(os.Getpagesize())
	base, offset := pageBounds(addr, pageSize)
	mem, err := unix.Mmap(int(f.Fd()), int64(base), int(pageSize),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("hpd: mmap %s @ %#x: %w", device, base, err)
	}

	return &memLine{f: f, mem: mem, offset: offset, mask: mask}, nil
}

type memLine struct {
	f      *os.File
	mem    []byte
	offset uint64
	mask   uint8
}

func (l *memLine) ReadBit() (uint8, error) {
	if l.mem[l.offset]&l.mask != 0 {
		return 1, nil
	}
	return 0, nil
}

func (l *memLine) WriteBit(v uint8) error {
	if v != 0 {
		l.mem[l.offset] |= l.mask
	} else {
		l.mem[l.offset] &^= l.mask
	}
	return nil
}

func (l *memLine) Close() error {
	if l.mem != nil {
		_ = unix.Munmap(l.mem)
		l.mem = nil
	}
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}
