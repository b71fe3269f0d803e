package lifegrid

import "testing"

func TestParityNext(t *testing.T) {
	if BufferACurrent.Next() != BufferBCurrent {
		t.Error("A-current should flip to B-current")
	}
	if BufferBCurrent.Next() != BufferACurrent {
		t.Error("B-current should flip to A-current")
	}
}

func TestParityAlternatesOverTicks(t *testing.T) {
	// Over any sequence of flips the parity must alternate strictly: the
	// buffer rendered at tick k is always the one written at tick k,
	// never the write target of tick k+1.
	p := BufferACurrent
	for tick := 1; tick <= 16; tick++ {
		p = p.Next()
		wantBCurrent := tick%2 == 1 // tick 1 writes B and makes it current
		if (p == BufferBCurrent) != wantBCurrent {
			t.Fatalf("tick %d: parity = %v", tick, p)
		}
	}
}

func TestParityString(t *testing.T) {
	tests := []struct {
		p    Parity
		want string
	}{
		{BufferACurrent, "A-current"},
		{BufferBCurrent, "B-current"},
		{Parity(7), "Parity(7)"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
