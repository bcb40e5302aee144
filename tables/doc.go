// Package tables reconstructs tabular structure from page primitives.
//
// Given the positioned characters, line segments, and rectangles of one
// decoded page, this package locates table regions, rebuilds their row and
// column grids, assigns text to cells, and scores how certain the
// reconstruction is.
//
// # Pipeline
//
// The [Detector] runs a fixed sequence per page:
//
//  1. Edge production under the configured strategy for each axis
//  2. Snapping and joining into canonical horizontal and vertical edges
//  3. Intersection finding between the perpendicular sets
//  4. Grouping of mutually intersecting edges into table regions
//  5. Grid construction, cell text assembly, and span merging per region
//  6. Confidence scoring and method resolution
//
// A page with no usable edges optionally falls back to whitespace-band
// inference; see [Detector.DetectBorderless].
//
// # Strategies
//
// Boundary production is chosen per axis through [Strategy]:
//
//   - [StrategyLines] - drawn lines and rectangle outlines
//   - [StrategyLinesStrict] - drawn lines only, no orphan recovery
//   - [StrategyText] - word alignment inference
//   - [StrategyExplicit] - caller-supplied coordinates
//
// The axes are independent, so a table with drawn row rules but no column
// rules can pair lines with text.
//
// # Configuration
//
// Detector behavior is controlled by [Config]:
//
//	cfg := tables.DefaultConfig()
//	cfg.SnapTolerance = 5
//	cfg.DetectNested = true
//	det, err := tables.NewDetector(&cfg)
//
// Configuration is validated once in [NewDetector]; an unresolvable
// combination such as an explicit strategy with no coordinates surfaces as
// a [*ConfigError]. After construction detection never fails: malformed
// input degrades to fewer or smaller tables, reported through [Warning]
// values on the [Result].
//
// # Confidence Scoring
//
// Detection confidence (0-1) weighs three components, one third each by
// default:
//
//   - Edge completeness - boundaries backed by found edges
//   - Content coverage - cells that actually hold text
//   - Grid regularity - uniformity of row heights and column widths
//
// Tables inferred purely from whitespace are capped below drawn-structure
// confidence.
package tables
