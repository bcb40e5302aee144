package trellis

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/trellis/model"
	"github.com/tsawler/trellis/tables"
)

var (
	errNilPage     = errors.New("no page specified")
	errNilDocument = errors.New("no document specified")
)

// Reconstructor provides a fluent interface for finding tables across the
// pages of a document. Each configuration method returns a new Reconstructor
// instance, making it safe for concurrent use and allowing method chaining.
type Reconstructor struct {
	// Source
	pages []*model.Page

	// Configuration
	options reconstructOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Reconstructor with a deep copy of
// options. This ensures immutability - each chain method returns a new
// instance.
func (r *Reconstructor) clone() *Reconstructor {
	return &Reconstructor{
		pages:   r.pages,
		options: r.options.clone(),
		err:     r.err,
	}
}

// ============================================================================
// Configuration Methods (return new Reconstructor instance)
// ============================================================================

// Pages narrows terminal operations to the given pages (1-indexed positions
// within the source document). Multiple calls are cumulative.
//
// Example:
//
//	tbls, _, err := trellis.FromDocument(doc).Pages(1, 3, 5).Tables()
func (r *Reconstructor) Pages(pages ...int) *Reconstructor {
	newRec := r.clone()
	newRec.options.pages = append(newRec.options.pages, pages...)
	return newRec
}

// PageRange narrows terminal operations to a range of pages (1-indexed,
// inclusive).
//
// Example:
//
//	tbls, _, err := trellis.FromDocument(doc).PageRange(5, 10).Tables()
func (r *Reconstructor) PageRange(start, end int) *Reconstructor {
	newRec := r.clone()
	for i := start; i <= end; i++ {
		newRec.options.pages = append(newRec.options.pages, i)
	}
	return newRec
}

// Detection replaces the whole detection configuration. Use it when the
// individual option methods do not reach the knob you need.
//
// Example:
//
//	cfg := tables.DefaultConfig()
//	cfg.EdgeMinLength = 18
//	tbls, _, err := trellis.FromPage(page).Detection(cfg).Tables()
func (r *Reconstructor) Detection(cfg tables.Config) *Reconstructor {
	newRec := r.clone()
	newRec.options.detection = cfg
	return newRec
}

// Strategies selects how cell boundaries are derived on each axis.
//
// Example:
//
//	tbls, _, err := trellis.FromPage(page).
//	    Strategies(tables.StrategyLines, tables.StrategyText).
//	    Tables()
func (r *Reconstructor) Strategies(horizontal, vertical tables.Strategy) *Reconstructor {
	newRec := r.clone()
	newRec.options.detection.HorizontalStrategy = horizontal
	newRec.options.detection.VerticalStrategy = vertical
	return newRec
}

// SnapTolerance sets how far apart collinear edges may sit and still snap
// together, in points.
//
// Example:
//
//	tbls, _, err := trellis.FromPage(page).SnapTolerance(5).Tables()
func (r *Reconstructor) SnapTolerance(points float64) *Reconstructor {
	newRec := r.clone()
	newRec.options.detection.SnapTolerance = points
	return newRec
}

// MinConfidence drops tables scoring below the given confidence (0-1).
//
// Example:
//
//	tbls, _, err := trellis.FromPage(page).MinConfidence(0.5).Tables()
func (r *Reconstructor) MinConfidence(confidence float64) *Reconstructor {
	newRec := r.clone()
	newRec.options.detection.MinConfidence = confidence
	return newRec
}

// DetectNested searches the cells of found tables for tables nested inside
// them, attaching anything found to the parent's Nested slice.
//
// Example:
//
//	tbls, _, err := trellis.FromPage(page).DetectNested().Tables()
func (r *Reconstructor) DetectNested() *Reconstructor {
	newRec := r.clone()
	newRec.options.detection.DetectNested = true
	return newRec
}

// ExplicitGrid supplies the cell boundaries directly and switches both axes
// to the explicit strategy: verticals are the x-coordinates of the column
// boundaries, horizontals the y-coordinates of the row boundaries.
//
// Example:
//
//	tbls, _, err := trellis.FromPage(page).
//	    ExplicitGrid([]float64{0, 100, 200}, []float64{0, 50, 100}).
//	    Tables()
func (r *Reconstructor) ExplicitGrid(verticals, horizontals []float64) *Reconstructor {
	newRec := r.clone()
	newRec.options.detection.VerticalStrategy = tables.StrategyExplicit
	newRec.options.detection.HorizontalStrategy = tables.StrategyExplicit
	newRec.options.detection.ExplicitVerticalLines = append([]float64(nil), verticals...)
	newRec.options.detection.ExplicitHorizontalLines = append([]float64(nil), horizontals...)
	return newRec
}

// Words supplies pre-segmented words for the text strategy, overriding the
// detector's own grouping of characters. Pages carrying their own words
// keep them.
//
// Example:
//
//	tbls, _, err := trellis.FromPage(page).
//	    Strategies(tables.StrategyText, tables.StrategyText).
//	    Words(words).
//	    Tables()
func (r *Reconstructor) Words(words []model.Word) *Reconstructor {
	newRec := r.clone()
	newRec.options.detection.Words = append([]model.Word(nil), words...)
	return newRec
}

// PageCount returns the number of pages the Reconstructor covers before any
// page selection is applied.
//
// Example:
//
//	count, err := trellis.FromDocument(doc).PageCount()
func (r *Reconstructor) PageCount() (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	return len(r.pages), nil
}

// ============================================================================
// Terminal Operations (execute detection and return results)
// ============================================================================

// Tables finds the tables on the configured pages and returns them in page
// order, each page's tables in reading order.
//
// Returns the tables, any warnings encountered during processing, and an
// error if detection could not run at all. Warnings indicate non-fatal
// issues (e.g., malformed explicit coordinates) where detection proceeded
// but results may be incomplete.
//
// Example:
//
//	tbls, warnings, err := trellis.FromPage(page).Tables()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", trellis.FormatWarnings(warnings))
//	}
func (r *Reconstructor) Tables() ([]*model.Table, []Warning, error) {
	if r.err != nil {
		return nil, nil, r.err
	}

	det, err := tables.NewDetector(&r.options.detection)
	if err != nil {
		return nil, nil, err
	}
	pages, err := r.resolvePages()
	if err != nil {
		return nil, nil, err
	}

	var all []*model.Table
	var warnings []Warning
	for _, page := range pages {
		res := det.FindTablesOnPage(page)
		all = append(all, res.Tables...)
		warnings = append(warnings, res.Warnings...)
	}
	return all, warnings, nil
}

// Results runs the full pipeline on the configured pages and returns one
// complete result per page: tables plus the merged edges, intersections,
// and warnings behind them. Use it when tuning tolerances.
//
// Example:
//
//	results, err := trellis.FromDocument(doc).Results()
//	for _, res := range results {
//	    fmt.Println(len(res.VerticalEdges), "vertical edges")
//	}
func (r *Reconstructor) Results() ([]*tables.Result, error) {
	if r.err != nil {
		return nil, r.err
	}

	det, err := tables.NewDetector(&r.options.detection)
	if err != nil {
		return nil, err
	}
	pages, err := r.resolvePages()
	if err != nil {
		return nil, err
	}

	results := make([]*tables.Result, 0, len(pages))
	for _, page := range pages {
		results = append(results, det.FindTablesOnPage(page))
	}
	return results, nil
}

// Markdown finds the tables on the configured pages and renders them as
// markdown, one table after another separated by blank lines.
//
// Example:
//
//	md, warnings, err := trellis.FromPage(page).Markdown()
func (r *Reconstructor) Markdown() (string, []Warning, error) {
	tbls, warnings, err := r.Tables()
	if err != nil {
		return "", warnings, err
	}

	var sb strings.Builder
	for i, t := range tbls {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(t.ToMarkdown())
	}
	return sb.String(), warnings, nil
}

// CSV finds the tables on the configured pages and renders them as CSV,
// one table after another separated by blank lines.
//
// Example:
//
//	csv, warnings, err := trellis.FromPage(page).CSV()
func (r *Reconstructor) CSV() (string, []Warning, error) {
	tbls, warnings, err := r.Tables()
	if err != nil {
		return "", warnings, err
	}

	var sb strings.Builder
	for i, t := range tbls {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(t.ToCSV())
	}
	return sb.String(), warnings, nil
}

// ============================================================================
// Internal helpers
// ============================================================================

// resolvePages applies the 1-indexed page selection and validates it.
// If no pages were specified, returns all pages.
func (r *Reconstructor) resolvePages() ([]*model.Page, error) {
	if len(r.options.pages) == 0 {
		return r.pages, nil
	}

	// Dedupe and validate
	seen := make(map[int]bool)
	var positions []int
	for _, p := range r.options.pages {
		if p < 1 || p > len(r.pages) {
			return nil, fmt.Errorf("page %d out of range (1-%d)", p, len(r.pages))
		}
		if !seen[p] {
			seen[p] = true
			positions = append(positions, p)
		}
	}
	sort.Ints(positions)

	selected := make([]*model.Page, 0, len(positions))
	for _, p := range positions {
		selected = append(selected, r.pages[p-1])
	}
	return selected, nil
}
