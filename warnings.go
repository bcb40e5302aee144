package trellis

import (
	"strings"

	"github.com/tsawler/trellis/tables"
)

// Warning is a non-fatal problem reported while reconstructing tables. It
// is an alias for tables.Warning so results from either package mix freely.
type Warning = tables.Warning

// FormatWarnings renders warnings as a single semicolon-separated string,
// suitable for a log line. An empty slice yields an empty string.
//
// Example:
//
//	log.Println("Warnings:", trellis.FormatWarnings(warnings))
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	parts := make([]string, 0, len(warnings))
	for _, w := range warnings {
		parts = append(parts, w.String())
	}
	return strings.Join(parts, "; ")
}
