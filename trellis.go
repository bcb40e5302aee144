// Package trellis provides a fluent API for reconstructing tables from the
// geometric primitives of an already-parsed document page.
//
// Basic usage:
//
//	tbls, warnings, err := trellis.FromPage(page).Tables()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", trellis.FormatWarnings(warnings))
//	}
//
// With options:
//
//	tbls, _, err := trellis.FromDocument(doc).
//	    Pages(1, 2, 3).
//	    Strategies(tables.StrategyLines, tables.StrategyText).
//	    MinConfidence(0.5).
//	    Tables()
//
// For full control of the pipeline, the lower-level tables package is also
// available.
package trellis

import (
	"github.com/tsawler/trellis/model"
	"github.com/tsawler/trellis/tables"
)

// FromPage creates a Reconstructor over a single page of primitives.
//
// Example:
//
//	tbls, warnings, err := trellis.FromPage(page).Tables()
func FromPage(page *model.Page) *Reconstructor {
	if page == nil {
		return &Reconstructor{err: errNilPage, options: defaultOptions()}
	}
	return &Reconstructor{
		pages:   []*model.Page{page},
		options: defaultOptions(),
	}
}

// FromPrimitives creates a Reconstructor over one page's worth of raw
// primitive slices. This is the entry point for callers that never build
// a model.Page of their own.
//
// Example:
//
//	tbls, warnings, err := trellis.FromPrimitives(chars, lines, rects, 1).Tables()
func FromPrimitives(chars []model.Char, lines []model.LineSegment, rects []model.Rect, pageNumber int) *Reconstructor {
	return FromPage(&model.Page{
		Number: pageNumber,
		Chars:  chars,
		Lines:  lines,
		Rects:  rects,
	})
}

// FromDocument creates a Reconstructor over every page of a document.
// Terminal operations walk the pages in order; Pages and PageRange narrow
// the selection.
//
// Example:
//
//	tbls, warnings, err := trellis.FromDocument(doc).Pages(2, 3).Tables()
func FromDocument(doc *model.Document) *Reconstructor {
	if doc == nil {
		return &Reconstructor{err: errNilDocument, options: defaultOptions()}
	}
	return &Reconstructor{
		pages:   doc.Pages,
		options: defaultOptions(),
	}
}

// ExtractTables finds the tables on one page and returns them in reading
// order. A nil config selects tables.DefaultConfig. This is the one-call
// form of the pipeline; FromPrimitives offers the same thing fluently.
func ExtractTables(chars []model.Char, lines []model.LineSegment, rects []model.Rect, pageNumber int, cfg *tables.Config) ([]*model.Table, error) {
	det, err := tables.NewDetector(cfg)
	if err != nil {
		return nil, err
	}
	return det.ExtractTables(chars, lines, rects, pageNumber), nil
}

// FindTables runs the full pipeline on one page and returns the complete
// result: tables plus the merged edges, intersections, and warnings behind
// them. Use it when tuning tolerances or diagnosing a page that will not
// resolve.
func FindTables(chars []model.Char, lines []model.LineSegment, rects []model.Rect, pageNumber int, cfg *tables.Config) (*tables.Result, error) {
	det, err := tables.NewDetector(cfg)
	if err != nil {
		return nil, err
	}
	return det.FindTables(chars, lines, rects, pageNumber), nil
}

// DetectBorderlessTables infers tables from character layout alone, without
// consulting drawn lines or rectangles. FindTables falls back to this on
// pages with no usable edges; calling it directly skips the edge pass.
func DetectBorderlessTables(chars []model.Char, pageNumber int, cfg *tables.Config) ([]*model.Table, error) {
	det, err := tables.NewDetector(cfg)
	if err != nil {
		return nil, err
	}
	return det.DetectBorderless(chars, pageNumber), nil
}

// FindNestedTables searches the cells of table for tables nested inside
// them, attaching anything found to the table's Nested slice, and returns
// the same table for chaining.
func FindNestedTables(table *model.Table, chars []model.Char, lines []model.LineSegment, rects []model.Rect, maxDepth int, cfg *tables.Config) (*model.Table, error) {
	det, err := tables.NewDetector(cfg)
	if err != nil {
		return nil, err
	}
	det.FindNested(table, chars, lines, rects, maxDepth)
	return table, nil
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	tbls := trellis.Must(trellis.ExtractTables(chars, lines, rects, 1, nil))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustTables is a helper that wraps a call to a terminal operation like
// Tables() and panics if the error is non-nil. It discards warnings and
// returns just the value. It is intended for use in scripts or tests where
// error handling would be cumbersome.
//
// Example:
//
//	tbls := trellis.MustTables(trellis.FromPage(page).Tables())
func MustTables[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
