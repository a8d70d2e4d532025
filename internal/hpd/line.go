package hpd

// Line is the minimal capability the controller needs from a hardware
// backend. Bit values follow the HPD_N convention: 1 = deasserted
// (unplugged), 0 = asserted (plugged).
//
// Close should be best-effort and must not change the line level.
type Line interface {
	ReadBit() (uint8, error)
	WriteBit(v uint8) error
	Close() error
}

var openMemLineFn = openMemLine
var openGpiodLineFn = openGpiodLine

// pageBounds splits a physical register address into the page-aligned base
// to map and the in-page byte offset of the register.
func pageBounds(addr, pageSize uint64) (base, offset uint64) {
	return addr / pageSize * pageSize, addr % pageSize
}
