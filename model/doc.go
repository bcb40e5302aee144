// Package model provides the data types shared across the table
// reconstruction pipeline.
//
// This package defines both the input primitives an upstream document
// decoder supplies and the output structures the detector produces, making
// it the vocabulary of the whole module.
//
// # Coordinate System
//
// All geometry uses page space with the origin at the top-left corner and Y
// increasing downward. "Top-to-bottom" ordering therefore means ascending Y.
// Decoders working in PDF-native bottom-left coordinates must flip Y before
// handing primitives to this module.
//
// # Input Primitives
//
// A page arrives as flat slices of positioned primitives:
//
//   - [Char] - a single glyph with its bounding box
//   - [Word] - an optional pre-assembled run of text
//   - [LineSegment] - a stroked path segment
//   - [Rect] - a filled or stroked rectangle
//
// The module never mutates these inputs. [Page] bundles the primitives of
// one page together with its number and dimensions, and [Document] groups
// pages for bulk processing; both are conveniences for callers working at
// the document level rather than requirements of the detector itself.
//
// # Tables
//
// The [Table] type is the reconstruction result:
//
//   - Rows holds the text matrix, Cells the full [Cell] records
//   - Row and column spanning via RowSpan/ColSpan
//   - A confidence score and the [DetectionMethod] that produced it
//   - Nested tables attached to their containing cell
//   - Export methods: ToMarkdown() and ToCSV()
//
// # Geometry
//
// Geometric primitives support position and layout calculations:
//
//   - [BBox] - bounding box with intersection, union, and overlap calculations
//   - [Point] - 2D point with distance calculation
//   - [Grid] - row and column boundary coordinates of a table
package model
