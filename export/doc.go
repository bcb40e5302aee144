// Package export renders reconstructed tables as HTML and XLSX, the two
// interchange formats the model's own ToMarkdown and ToCSV do not cover.
package export
