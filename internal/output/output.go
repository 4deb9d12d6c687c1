// Package output renders normalized records and run statistics.
// Records stream as JSONL; statistics support text, JSON, and table formats.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/bimmerbailey/credsift/internal/config"
)

// Format represents an output format type.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ParseFormat converts a string to a Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// Writer handles writing formatted output.
type Writer struct {
	w      io.Writer
	format Format
}

// New creates a new output Writer.
func New(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format}
}

// RecordWriter streams credential records as newline-delimited JSON.
type RecordWriter struct {
	enc *json.Encoder
}

// NewRecordWriter creates a JSONL record stream on w.
func NewRecordWriter(w io.Writer) *RecordWriter {
	return &RecordWriter{enc: json.NewEncoder(w)}
}

// Write emits one record as a single JSON line.
func (rw *RecordWriter) Write(entry config.CredentialEntry) error {
	return rw.enc.Encode(entry)
}

// WriteJSON outputs any value as indented JSON.
func (wr *Writer) WriteJSON(v interface{}) error {
	enc := json.NewEncoder(wr.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteStats outputs run statistics in the configured format.
func (wr *Writer) WriteStats(stats config.Stats) error {
	switch wr.format {
	case FormatJSON:
		return wr.WriteJSON(stats)
	case FormatTable:
		return wr.writeStatsTable(stats)
	default:
		return wr.writeStatsText(stats)
	}
}

func (wr *Writer) writeStatsText(stats config.Stats) error {
	fmt.Fprintln(wr.w, stats.String())
	for _, cat := range categoryDisplayOrder {
		if n, ok := stats.Categories[cat]; ok && n > 0 {
			fmt.Fprintf(wr.w, "  %s: %d\n", cat, n)
		}
	}
	fmt.Fprintf(wr.w, "Success rate: %.1f%%\n", stats.SuccessRate()*100)
	return nil
}

func (wr *Writer) writeStatsTable(stats config.Stats) error {
	tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tCOUNT\tPERCENT")
	fmt.Fprintln(tw, "--------\t-----\t-------")

	for _, cat := range sortedCategories(stats.Categories) {
		n := stats.Categories[cat]
		pct := 0.0
		if stats.TotalLines > 0 {
			pct = float64(n) * 100 / float64(stats.TotalLines)
		}
		fmt.Fprintf(tw, "%s\t%d\t%.1f%%\n", cat, n, pct)
	}

	fmt.Fprintf(tw, "\nTOTAL\t%d\t\n", stats.TotalLines)
	return tw.Flush()
}

// categoryDisplayOrder keeps text reports stable across runs.
var categoryDisplayOrder = []config.Category{
	config.CategoryValidCredential,
	config.CategoryHeader,
	config.CategoryFooter,
	config.CategoryComment,
	config.CategorySeparator,
	config.CategoryGarbage,
}

func sortedCategories(counts map[config.Category]int) []config.Category {
	cats := make([]config.Category, 0, len(counts))
	for cat := range counts {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool {
		if counts[cats[i]] != counts[cats[j]] {
			return counts[cats[i]] > counts[cats[j]]
		}
		return cats[i] < cats[j]
	})
	return cats
}
