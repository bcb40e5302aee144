package tables

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/tsawler/trellis/model"
)

// Strategy selects how cell boundaries are derived along one axis.
type Strategy string

const (
	// StrategyLines derives boundaries from stroked lines and rectangle
	// outlines, keeping orphan edges that never intersect the other axis
	StrategyLines Strategy = "lines"

	// StrategyLinesStrict derives boundaries from stroked lines only and
	// discards orphan edges
	StrategyLinesStrict Strategy = "lines_strict"

	// StrategyText infers boundaries from word alignment
	StrategyText Strategy = "text"

	// StrategyExplicit uses caller-supplied coordinates
	StrategyExplicit Strategy = "explicit"
)

// linesBased reports whether the strategy reads drawn geometry.
func (s Strategy) linesBased() bool {
	return s == StrategyLines || s == StrategyLinesStrict
}

// Config holds detector configuration
type Config struct {
	// Boundary strategy per axis
	VerticalStrategy   Strategy `validate:"oneof=lines lines_strict text explicit"`
	HorizontalStrategy Strategy `validate:"oneof=lines lines_strict text explicit"`

	// Caller-supplied boundary coordinates, required by the explicit strategy
	ExplicitVerticalLines   []float64 `validate:"required_if=VerticalStrategy explicit"`
	ExplicitHorizontalLines []float64 `validate:"required_if=HorizontalStrategy explicit"`

	// Collinear edges within this distance snap together (points)
	SnapTolerance float64 `validate:"min=0"`

	// Collinear spans union across gaps up to this size (points)
	JoinTolerance float64 `validate:"min=0"`

	// Merged edges shorter than this are discarded (points)
	EdgeMinLength float64 `validate:"min=0"`

	// Perpendicular edges must pass within this distance to intersect (points)
	IntersectionTolerance float64 `validate:"min=0"`

	// Deviation from axis alignment treated as axis-aligned (points)
	AngularTolerance float64 `validate:"min=0"`

	// Word counts required before alignment produces an edge
	MinWordsVertical   int `validate:"min=0"`
	MinWordsHorizontal int `validate:"min=0"`

	// Pre-assembled words for the text strategy; ignored otherwise
	Words []model.Word

	// Minimum populated bands per axis for whitespace-band detection
	MinRows int `validate:"min=0"`
	MinCols int `validate:"min=0"`

	// Minimum confidence threshold (0-1); tables below it are dropped.
	// Zero keeps everything.
	MinConfidence float64 `validate:"min=0,max=1"`

	// Whether to fall back to whitespace-band detection when a page
	// produces no usable edges
	BorderlessFallback bool

	// Gap sizes that split whitespace bands; zero derives them from the
	// average glyph dimensions
	MinColumnGap float64 `validate:"min=0"`
	MinRowGap    float64 `validate:"min=0"`

	// Average glyph size overrides for histogram bucketing; zero measures
	// them from the characters
	AvgCharWidth  float64 `validate:"min=0"`
	AvgCharHeight float64 `validate:"min=0"`

	// Whether to search the cells of found tables for nested tables
	DetectNested bool

	// Depth bound for the nested search
	MaxNestedDepth int `validate:"min=0"`

	// Confidence a nested candidate needs before it is attached
	MinNestedConfidence float64 `validate:"min=0,max=1"`

	// Confidence component weights, renormalized to sum to 1
	WeightCompleteness float64 `validate:"min=0"`
	WeightCoverage     float64 `validate:"min=0"`
	WeightRegularity   float64 `validate:"min=0"`

	// Whether to merge cells across missing internal edges. Only the line
	// strategies ever merge; inferred text boundaries are not evidence of
	// spanning.
	DetectMergedCells bool
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		VerticalStrategy:      StrategyLines,
		HorizontalStrategy:    StrategyLines,
		SnapTolerance:         3.0,
		JoinTolerance:         3.0,
		EdgeMinLength:         9.0,
		IntersectionTolerance: 3.0,
		AngularTolerance:      3.0,
		MinWordsVertical:      3,
		MinWordsHorizontal:    1,
		MinRows:               2,
		MinCols:               2,
		MinConfidence:         0,
		BorderlessFallback:    true,
		DetectNested:          false,
		MaxNestedDepth:        2,
		MinNestedConfidence:   0.5,
		WeightCompleteness:    1.0 / 3.0,
		WeightCoverage:        1.0 / 3.0,
		WeightRegularity:      1.0 / 3.0,
		DetectMergedCells:     true,
	}
}

// Validate checks the configuration. Any violation comes back wrapped in a
// [*ConfigError].
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return &ConfigError{Err: err}
	}
	return nil
}

// normalized returns a copy with empty strategies replaced by the default.
func (c Config) normalized() Config {
	if c.VerticalStrategy == "" {
		c.VerticalStrategy = StrategyLines
	}
	if c.HorizontalStrategy == "" {
		c.HorizontalStrategy = StrategyLines
	}
	return c
}

// ConfigError reports a configuration the detector cannot resolve, such as
// an explicit strategy with no coordinates at all. It is the only hard
// failure this package produces; everything else degrades to fewer or
// smaller tables.
type ConfigError struct {
	Err error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("tables: invalid config: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error {
	return e.Err
}
