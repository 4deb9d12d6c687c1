// Package pipeline orchestrates per-line normalization of credential dumps.
//
// It reads a dump as a stream of lines, runs feature extraction,
// classification, and field extraction on each, and emits normalized
// records through a caller-supplied callback. Memory use is constant in the
// size of the input; each line is processed to completion before the next
// is read, so emitted line numbers always match input order.
package pipeline

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/bimmerbailey/credsift/internal/classify"
	"github.com/bimmerbailey/credsift/internal/config"
	"github.com/bimmerbailey/credsift/internal/decode"
	"github.com/bimmerbailey/credsift/internal/extract"
	"github.com/bimmerbailey/credsift/internal/features"
)

// EmitFunc receives each normalized record. Returning an error stops the
// run; the partial statistics are still returned to the caller.
type EmitFunc func(entry config.CredentialEntry) error

// Normalizer converts raw dump lines into normalized credential records.
// A Normalizer is stateless between runs; each Run owns its own Stats, so
// independent runs may proceed concurrently.
type Normalizer struct {
	minConfidence float64
	classifier    *classify.Classifier
}

// New creates a Normalizer. minConfidence must be within [0, 1]; an
// out-of-range value is rejected here, before any line is processed.
func New(minConfidence float64, heur config.Heuristics) (*Normalizer, error) {
	if minConfidence < 0 || minConfidence > 1 {
		return nil, fmt.Errorf("min confidence %v out of range [0.0, 1.0]", minConfidence)
	}
	return &Normalizer{
		minConfidence: minConfidence,
		classifier:    classify.New(heur),
	}, nil
}

// Run processes every line of r, emitting normalized records for credential
// lines that meet the confidence threshold and counting everything else.
// No single malformed line aborts the run: per-line problems land in the
// statistics counters. The only errors returned are reader failures and
// errors from the emit callback (which the caller can use for early
// termination).
func (n *Normalizer) Run(r io.Reader, emit EmitFunc) (config.Stats, error) {
	stats := config.NewStats()
	reader := bufio.NewReader(r)

	lineNum := 0
	for {
		raw, err := reader.ReadBytes('\n')
		if len(raw) > 0 {
			lineNum++
			stats.TotalLines++

			raw = bytes.TrimRight(raw, "\r\n")
			if emitErr := n.processLine(raw, lineNum, &stats, emit); emitErr != nil {
				return stats, emitErr
			}
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("reading input: %w", err)
		}
	}

	return stats, nil
}

// processLine classifies one line and updates stats. Only the emit callback
// can produce an error; everything else is folded into counters.
func (n *Normalizer) processLine(raw []byte, lineNum int, stats *config.Stats, emit EmitFunc) (err error) {
	defer func() {
		// The extraction stack is never supposed to panic on any input;
		// if it does, the line is counted and the run continues.
		if r := recover(); r != nil {
			stats.Errors++
			err = nil
		}
	}()

	line := decode.Line(raw)
	if line == "" {
		stats.Categories[config.CategoryGarbage]++
		return nil
	}

	fv := features.Extract(line)
	result := n.classifier.Classify(line, fv)

	if result.Category != config.CategoryValidCredential {
		stats.Categories[result.Category]++
		return nil
	}

	if result.Confidence < n.minConfidence {
		stats.Categories[config.CategoryValidCredential]++
		stats.FilteredLowConfidence++
		return nil
	}

	entry := extract.Parse(line, fv.Delimiter)
	if entry.IsEmpty() {
		// Extraction failure: demote to garbage rather than emit a
		// record with no credential content.
		stats.Categories[config.CategoryGarbage]++
		return nil
	}

	entry.Confidence = result.Confidence
	entry.LineNumber = lineNum
	entry.DetectedFormat = extract.FormatLabel(&entry, fv.Delimiter)

	stats.Categories[config.CategoryValidCredential]++
	stats.ValidCredentials++
	return emit(entry)
}

// NormalizeLine runs the full per-line path against a single already-decoded
// line. It returns the classification result for every line and a record
// only when the line is an extractable credential. Used by the preview and
// watch surfaces.
func (n *Normalizer) NormalizeLine(line string, lineNum int) (*config.CredentialEntry, classify.Result) {
	line = decode.Clean(line)
	if line == "" {
		return nil, classify.Result{Category: config.CategoryGarbage, Confidence: 1.0}
	}

	fv := features.Extract(line)
	result := n.classifier.Classify(line, fv)

	if result.Category != config.CategoryValidCredential || result.Confidence < n.minConfidence {
		return nil, result
	}

	entry := extract.Parse(line, fv.Delimiter)
	if entry.IsEmpty() {
		return nil, result
	}

	entry.Confidence = result.Confidence
	entry.LineNumber = lineNum
	entry.DetectedFormat = extract.FormatLabel(&entry, fv.Delimiter)
	return &entry, result
}

// MinConfidence returns the configured threshold.
func (n *Normalizer) MinConfidence() float64 {
	return n.minConfidence
}
