package lifegrid

import (
	"errors"
	"testing"
)

func TestNewGrid(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{"minimal", 1, false},
		{"typical", 512, false},
		{"zero", 0, true},
		{"negative", -4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGrid(tt.n)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidGridSize) {
					t.Fatalf("NewGrid(%d) error = %v, want ErrInvalidGridSize", tt.n, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewGrid(%d) error = %v", tt.n, err)
			}
			if g.Size() != tt.n {
				t.Errorf("Size() = %d, want %d", g.Size(), tt.n)
			}
			if g.Cells() != tt.n*tt.n {
				t.Errorf("Cells() = %d, want %d", g.Cells(), tt.n*tt.n)
			}
		})
	}
}

func TestGridIndexRowMajor(t *testing.T) {
	g, err := NewGrid(7)
	if err != nil {
		t.Fatal(err)
	}
	if got := g.Index(0, 0); got != 0 {
		t.Errorf("Index(0,0) = %d, want 0", got)
	}
	if got := g.Index(3, 2); got != 2*7+3 {
		t.Errorf("Index(3,2) = %d, want %d", got, 2*7+3)
	}
	if got := g.Index(6, 6); got != g.Cells()-1 {
		t.Errorf("Index(6,6) = %d, want %d", got, g.Cells()-1)
	}
}

func TestGridWrap(t *testing.T) {
	g, err := NewGrid(5)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		x, y   int
		wx, wy int
	}{
		{0, 0, 0, 0},
		{-1, 0, 4, 0},
		{0, -1, 0, 4},
		{5, 0, 0, 0},
		{0, 5, 0, 0},
		{-1, -1, 4, 4},
		{5, 5, 0, 0},
		{4, 4, 4, 4},
	}
	for _, tt := range tests {
		wx, wy := g.Wrap(tt.x, tt.y)
		if wx != tt.wx || wy != tt.wy {
			t.Errorf("Wrap(%d, %d) = (%d, %d), want (%d, %d)", tt.x, tt.y, wx, wy, tt.wx, tt.wy)
		}
	}
}

func TestQuadVertices(t *testing.T) {
	verts := QuadVertices()
	if len(verts) != 12 {
		t.Fatalf("QuadVertices() returned %d floats, want 12 (6 vec2 corners)", len(verts))
	}
	// All corners must stay inside the unit square.
	for i := 0; i < len(verts); i += 2 {
		x, y := verts[i], verts[i+1]
		if x < 0 || x > 1 || y < 0 || y > 1 {
			t.Errorf("corner %d = (%v, %v) outside unit square", i/2, x, y)
		}
	}
}
