package tables

import (
	"testing"

	"github.com/tsawler/trellis/edges"
)

func hEdge(y, start, end float64) edges.Edge {
	return edges.Edge{Orientation: edges.Horizontal, Position: y, Start: start, End: end, Source: edges.SourceLine}
}

func vEdge(x, start, end float64) edges.Edge {
	return edges.Edge{Orientation: edges.Vertical, Position: x, Start: start, End: end, Source: edges.SourceLine}
}

func TestFindIntersections(t *testing.T) {
	tests := []struct {
		name       string
		horizontal []edges.Edge
		vertical   []edges.Edge
		tol        float64
		want       int
	}{
		{
			name:       "simple cross",
			horizontal: []edges.Edge{hEdge(50, 0, 100)},
			vertical:   []edges.Edge{vEdge(50, 0, 100)},
			tol:        3,
			want:       1,
		},
		{
			name:       "full grid",
			horizontal: []edges.Edge{hEdge(100, 50, 250), hEdge(150, 50, 250)},
			vertical:   []edges.Edge{vEdge(50, 100, 150), vEdge(150, 100, 150), vEdge(250, 100, 150)},
			tol:        3,
			want:       6,
		},
		{
			name:       "near miss within tolerance",
			horizontal: []edges.Edge{hEdge(50, 0, 98)},
			vertical:   []edges.Edge{vEdge(100, 48, 150)},
			tol:        3,
			want:       1,
		},
		{
			name:       "miss beyond tolerance",
			horizontal: []edges.Edge{hEdge(50, 0, 90)},
			vertical:   []edges.Edge{vEdge(100, 55, 150)},
			tol:        3,
			want:       0,
		},
		{
			name:       "parallel never cross",
			horizontal: []edges.Edge{hEdge(50, 0, 100), hEdge(80, 0, 100)},
			vertical:   nil,
			tol:        3,
			want:       0,
		},
		{
			name:       "empty input",
			horizontal: nil,
			vertical:   nil,
			tol:        3,
			want:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindIntersections(tt.horizontal, tt.vertical, tt.tol)
			if len(got) != tt.want {
				t.Errorf("FindIntersections() found %d crossings, want %d", len(got), tt.want)
			}
		})
	}
}

func TestFindIntersectionsPoint(t *testing.T) {
	horizontal := []edges.Edge{hEdge(100, 50, 250)}
	vertical := []edges.Edge{vEdge(150, 90, 160)}

	got := FindIntersections(horizontal, vertical, 3)
	if len(got) != 1 {
		t.Fatalf("FindIntersections() found %d crossings, want 1", len(got))
	}
	if got[0].Point.X != 150 || got[0].Point.Y != 100 {
		t.Errorf("crossing at (%v, %v), want (150, 100)", got[0].Point.X, got[0].Point.Y)
	}
	if got[0].H != 0 || got[0].V != 0 {
		t.Errorf("crossing indices (%d, %d), want (0, 0)", got[0].H, got[0].V)
	}
}

func TestFindIntersectionsTJunction(t *testing.T) {
	// A vertical edge ending exactly on the horizontal still registers.
	horizontal := []edges.Edge{hEdge(100, 0, 200)}
	vertical := []edges.Edge{vEdge(50, 100, 200)}

	got := FindIntersections(horizontal, vertical, 3)
	if len(got) != 1 {
		t.Errorf("FindIntersections() found %d crossings at T junction, want 1", len(got))
	}
}
