package tables

import (
	"github.com/tsawler/trellis/edges"
	"github.com/tsawler/trellis/model"
)

// Intersection marks a crossing between a horizontal and a vertical edge.
// H and V index into the edge slices the detector reports alongside it.
type Intersection struct {
	Point model.Point
	H     int
	V     int
}

// FindIntersections returns every crossing between the horizontal and
// vertical edge sets. Two perpendicular edges intersect when each lies
// within tol of the other's span, so edges that stop just short of one
// another still register; that is what makes hand-drawn T and L junctions
// work. Results are ordered by horizontal edge, then vertical edge.
func FindIntersections(horizontal, vertical []edges.Edge, tol float64) []Intersection {
	var crossings []Intersection
	for hi, h := range horizontal {
		for vi, v := range vertical {
			if h.Position < v.Start-tol || h.Position > v.End+tol {
				continue
			}
			if v.Position < h.Start-tol || v.Position > h.End+tol {
				continue
			}
			crossings = append(crossings, Intersection{
				Point: model.Point{X: v.Position, Y: h.Position},
				H:     hi,
				V:     vi,
			})
		}
	}
	return crossings
}
