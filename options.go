package trellis

import (
	"github.com/tsawler/trellis/model"
	"github.com/tsawler/trellis/tables"
)

// reconstructOptions holds configuration for table reconstruction.
type reconstructOptions struct {
	// Page selection (1-indexed in API, stored as-is)
	pages []int

	// Detection configuration handed to the tables package
	detection tables.Config
}

// defaultOptions returns the default reconstruction options.
func defaultOptions() reconstructOptions {
	return reconstructOptions{
		pages:     nil, // nil means all pages
		detection: tables.DefaultConfig(),
	}
}

// clone creates a deep copy of reconstructOptions.
func (o reconstructOptions) clone() reconstructOptions {
	newOpts := reconstructOptions{
		detection: o.detection,
	}

	// Deep copy pages slice
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}

	// Deep copy the slices the detection config carries
	if o.detection.ExplicitVerticalLines != nil {
		newOpts.detection.ExplicitVerticalLines = append([]float64(nil), o.detection.ExplicitVerticalLines...)
	}
	if o.detection.ExplicitHorizontalLines != nil {
		newOpts.detection.ExplicitHorizontalLines = append([]float64(nil), o.detection.ExplicitHorizontalLines...)
	}
	if o.detection.Words != nil {
		newOpts.detection.Words = append([]model.Word(nil), o.detection.Words...)
	}

	return newOpts
}
