package lifegrid

import "fmt"

// Parity identifies which of the two cell buffers is current: the
// authoritative generation that is safe to read for rendering. The other
// buffer is the write target of the next transition step. The scheduler
// toggles parity exactly once per tick, between submitting the compute
// dispatch and submitting the render pass.
//
// Parity is an explicit two-state enum rather than a raw step counter so
// the read/write separation invariant is visible in the type system.
type Parity int

const (
	// BufferACurrent means buffer A holds the live generation and buffer B
	// is the next transition's write target.
	BufferACurrent Parity = iota

	// BufferBCurrent means buffer B holds the live generation and buffer A
	// is the next transition's write target.
	BufferBCurrent
)

// Next returns the opposite parity.
func (p Parity) Next() Parity {
	if p == BufferACurrent {
		return BufferBCurrent
	}
	return BufferACurrent
}

// String returns the string representation of the parity.
func (p Parity) String() string {
	switch p {
	case BufferACurrent:
		return "A-current"
	case BufferBCurrent:
		return "B-current"
	default:
		return fmt.Sprintf("Parity(%d)", int(p))
	}
}
