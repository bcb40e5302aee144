package tables

import (
	"sort"

	"github.com/tsawler/trellis/edges"
	"github.com/tsawler/trellis/model"
)

// region is a connected component of mutually intersecting edges: the
// candidate area for one table. Members index into the detector's
// horizontal and vertical edge slices.
type region struct {
	hIdx      []int
	vIdx      []int
	crossings []Intersection
}

// findRegions groups edges into connected components through their
// intersections using union-find. Edges that intersect nothing are left
// out; adoptOrphans decides their fate afterwards. Regions come back
// ordered by their first member edge, which keeps output deterministic.
func findRegions(horizontal, vertical []edges.Edge, crossings []Intersection) []*region {
	if len(crossings) == 0 {
		return nil
	}

	// Horizontal edges occupy nodes [0, nh), vertical edges [nh, nh+nv).
	nh := len(horizontal)
	parent := make([]int, nh+len(vertical))
	for i := range parent {
		parent[i] = i
	}
	find := func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}

	linked := make([]bool, len(parent))
	for _, c := range crossings {
		linked[c.H] = true
		linked[nh+c.V] = true
		ra, rb := find(c.H), find(nh+c.V)
		if ra != rb {
			parent[ra] = rb
		}
	}

	slots := make(map[int]int)
	var regions []*region
	slot := func(root int) *region {
		i, ok := slots[root]
		if !ok {
			i = len(regions)
			slots[root] = i
			regions = append(regions, &region{})
		}
		return regions[i]
	}

	for hi := range horizontal {
		if linked[hi] {
			r := slot(find(hi))
			r.hIdx = append(r.hIdx, hi)
		}
	}
	for vi := range vertical {
		if linked[nh+vi] {
			r := slot(find(nh + vi))
			r.vIdx = append(r.vIdx, vi)
		}
	}
	for _, c := range crossings {
		r := slot(find(c.H))
		r.crossings = append(r.crossings, c)
	}
	return regions
}

// adoptOrphans assigns intersection-free edges to the region they visually
// belong to. An orphan qualifies when its span overlaps the region's extent
// by at least half the orphan's own length and its position sits within one
// median boundary pitch (plus tol) of the region's outermost boundary on
// that axis. This recovers the closing rule of an open-bottom or open-side
// table whose final stroke stops short of every crossing edge. Orphans go
// to the first qualifying region in region order.
func adoptOrphans(regions []*region, horizontal, vertical []edges.Edge, tol float64, adoptH, adoptV bool) {
	if len(regions) == 0 {
		return
	}

	claimedH := make([]bool, len(horizontal))
	claimedV := make([]bool, len(vertical))
	for _, r := range regions {
		for _, hi := range r.hIdx {
			claimedH[hi] = true
		}
		for _, vi := range r.vIdx {
			claimedV[vi] = true
		}
	}

	if adoptH {
		for hi, h := range horizontal {
			if claimedH[hi] {
				continue
			}
			for _, r := range regions {
				if r.admits(h, horizontal, vertical, tol, true) {
					r.hIdx = append(r.hIdx, hi)
					claimedH[hi] = true
					break
				}
			}
		}
	}
	if adoptV {
		for vi, v := range vertical {
			if claimedV[vi] {
				continue
			}
			for _, r := range regions {
				if r.admits(v, horizontal, vertical, tol, false) {
					r.vIdx = append(r.vIdx, vi)
					claimedV[vi] = true
					break
				}
			}
		}
	}
}

// admits applies the orphan adoption test for one candidate edge.
func (r *region) admits(e edges.Edge, horizontal, vertical []edges.Edge, tol float64, isHorizontal bool) bool {
	box := r.bbox(horizontal, vertical)

	var lo, hi float64
	var positions []float64
	var fallback float64
	if isHorizontal {
		lo, hi = box.Left(), box.Right()
		positions = boundaryPositions(r.hIdx, horizontal, tol)
		fallback = box.Height
	} else {
		lo, hi = box.Top(), box.Bottom()
		positions = boundaryPositions(r.vIdx, vertical, tol)
		fallback = box.Width
	}
	if len(positions) == 0 || e.Length() <= 0 {
		return false
	}

	overlap := minFloat(e.End, hi) - maxFloat(e.Start, lo)
	if overlap < 0.5*e.Length() {
		return false
	}

	pitch := medianPitch(positions)
	if pitch <= 0 {
		pitch = fallback
	}
	low := positions[0] - pitch - tol
	high := positions[len(positions)-1] + pitch + tol
	return e.Position >= low && e.Position <= high
}

// bbox returns the union of the member edges' boxes.
func (r *region) bbox(horizontal, vertical []edges.Edge) model.BBox {
	var box model.BBox
	first := true
	add := func(b model.BBox) {
		if first {
			box = b
			first = false
			return
		}
		box = box.Union(b)
	}
	for _, hi := range r.hIdx {
		add(horizontal[hi].BBox())
	}
	for _, vi := range r.vIdx {
		add(vertical[vi].BBox())
	}
	return box
}

// grid clusters the member edge positions into cell boundaries. A usable
// grid needs at least two boundaries per axis, one cell; anything less
// returns nil.
func (r *region) grid(horizontal, vertical []edges.Edge, snapTol float64) *model.Grid {
	rows := boundaryPositions(r.hIdx, horizontal, snapTol)
	cols := boundaryPositions(r.vIdx, vertical, snapTol)
	if len(rows) < 2 || len(cols) < 2 {
		return nil
	}
	return &model.Grid{Rows: rows, Cols: cols}
}

// edgeSubset materializes the member edges of one axis.
func edgeSubset(idx []int, all []edges.Edge) []edges.Edge {
	out := make([]edges.Edge, 0, len(idx))
	for _, i := range idx {
		out = append(out, all[i])
	}
	return out
}

// boundaryPositions clusters member edge positions within tol.
func boundaryPositions(idx []int, all []edges.Edge, tol float64) []float64 {
	positions := make([]float64, 0, len(idx))
	for _, i := range idx {
		positions = append(positions, all[i].Position)
	}
	return edges.Cluster(positions, tol)
}

// medianPitch returns the median gap between consecutive sorted positions,
// or 0 when there are fewer than two.
func medianPitch(positions []float64) float64 {
	if len(positions) < 2 {
		return 0
	}
	diffs := make([]float64, 0, len(positions)-1)
	for i := 1; i < len(positions); i++ {
		diffs = append(diffs, positions[i]-positions[i-1])
	}
	sort.Float64s(diffs)
	return diffs[len(diffs)/2]
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
