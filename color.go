package lifegrid

import "fmt"

// Cell is one grid cell: a packed 32-bit color value.
//
// Bits [0:8) hold the red channel, [8:16) green, [16:24) blue; the top
// byte is unused. The zero value is a dead cell. Any non-zero value is
// alive, regardless of which channels are set.
type Cell uint32

// Pure-color cells used by the default seeding.
const (
	Red   Cell = 0x0000FF
	Green Cell = 0x00FF00
	Blue  Cell = 0xFF0000
)

// NewCell packs three 8-bit channels into a Cell.
func NewCell(r, g, b uint8) Cell {
	return Cell(uint32(r) | uint32(g)<<8 | uint32(b)<<16)
}

// R returns the red channel.
func (c Cell) R() uint8 { return uint8(c & 0xFF) }

// G returns the green channel.
func (c Cell) G() uint8 { return uint8(c >> 8 & 0xFF) }

// B returns the blue channel.
func (c Cell) B() uint8 { return uint8(c >> 16 & 0xFF) }

// Alive reports whether the cell is live. A cell is live exactly when its
// packed value is non-zero; there is no separate liveness bit.
func (c Cell) Alive() bool { return c != 0 }

// String returns the cell as a #RRGGBB literal, or "dead" for the zero cell.
func (c Cell) String() string {
	if !c.Alive() {
		return "dead"
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R(), c.G(), c.B())
}
