// Package edges converts page primitives into canonical structural edges.
//
// An [Edge] is an axis-aligned run at a fixed position: horizontal edges
// carry a Y position and an X span, vertical edges the reverse. Edges come
// from four sources: stroked line segments, rectangle outlines, word
// alignment, and caller-supplied explicit coordinates.
//
// # Extraction
//
// The [Extractor] filters degenerate geometry, classifies segments with
// [Classify], and canonicalizes the result with Merge: collinear edges snap
// together when their positions chain within the snap tolerance, spans union
// across gaps up to the join tolerance, and anything shorter than the
// minimum length is discarded.
//
// # Clustering
//
// [Cluster] is the shared 1-D grouping primitive. It is deliberately
// greedy-from-the-left with the group's lowest value as representative, so
// repeated runs over the same input always produce identical boundaries.
//
// # Word Alignment
//
// When no rules are drawn, the [WordAligner] stands in for them: columns of
// words sharing a left, right, or center X become vertical edges, rows of
// words become pairs of horizontal edges.
package edges
