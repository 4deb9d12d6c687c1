// Package features computes per-line feature vectors for classification.
//
// A Vector is derived from a single cleaned line, consumed by the
// classifier, and discarded. Extraction never fails: any string, including
// empty or binary-looking input, yields a well-formed Vector.
package features

import (
	"math"
	"strings"
	"unicode"

	"github.com/bimmerbailey/credsift/internal/config"
	"github.com/bimmerbailey/credsift/internal/patterns"
)

// Vector is the read-only feature record for one line.
type Vector struct {
	Length int

	// Character-class ratios. AlphaRatio+DigitRatio+SpecialRatio+
	// WhitespaceRatio sums to 1.0 for non-empty lines.
	AlphaRatio      float64
	DigitRatio      float64
	SpecialRatio    float64
	WhitespaceRatio float64

	// Shannon entropy in bits per character over the line's rune
	// distribution. Zero for the empty line.
	Entropy float64

	// Delimiter is the detected field separator, or "" when no candidate
	// qualifies. DelimiterCount is its occurrence count; FieldCount is the
	// resulting segment count (1 when no delimiter).
	Delimiter      string
	DelimiterCount int
	FieldCount     int

	HasEmail         bool
	HasHash          bool
	HashCandidate    config.HashType
	HasUsernameShape bool
}

// Extract computes the feature vector for one line.
func Extract(line string) Vector {
	v := Vector{
		Length:        len(line),
		HashCandidate: config.HashUnknown,
		FieldCount:    1,
	}

	runes := []rune(line)
	if len(runes) > 0 {
		var alpha, digit, space, special int
		for _, r := range runes {
			switch {
			case unicode.IsLetter(r):
				alpha++
			case unicode.IsDigit(r):
				digit++
			case unicode.IsSpace(r):
				space++
			default:
				special++
			}
		}
		total := float64(len(runes))
		v.AlphaRatio = float64(alpha) / total
		v.DigitRatio = float64(digit) / total
		v.SpecialRatio = float64(special) / total
		v.WhitespaceRatio = float64(space) / total
	}

	v.Entropy = Entropy(line)
	v.Delimiter, v.DelimiterCount = DetectDelimiter(line)
	if v.Delimiter != "" {
		v.FieldCount = v.DelimiterCount + 1
	}

	v.HasEmail = patterns.ContainsEmail(line)
	v.HashCandidate, v.HasHash = patterns.ContainsHash(line)

	if v.Delimiter != "" {
		for _, seg := range strings.Split(line, v.Delimiter) {
			if patterns.IsUsername(strings.TrimSpace(seg)) {
				v.HasUsernameShape = true
				break
			}
		}
	} else {
		v.HasUsernameShape = patterns.IsUsername(strings.TrimSpace(line))
	}

	return v
}

// DetectDelimiter picks the most plausible field separator for line.
//
// Each candidate must occur at least once and split the line into 2-4
// segments; this rejects delimiters that merely appear inside a single value
// (a colon run inside a separator banner, "==" inside a base64 blob). Among
// qualifying candidates the highest occurrence count wins, with the fixed
// candidate order breaking ties. Returns ("", 0) when nothing qualifies.
func DetectDelimiter(line string) (string, int) {
	best := ""
	bestCount := 0
	for _, delim := range patterns.Delimiters() {
		count := strings.Count(line, delim)
		if count < 1 || count > 3 {
			continue
		}
		if count > bestCount {
			best = delim
			bestCount = count
		}
	}
	return best, bestCount
}

// Entropy returns the Shannon entropy of the line's rune distribution in
// bits per character. The empty string has entropy 0 by convention.
func Entropy(line string) float64 {
	if line == "" {
		return 0
	}

	counts := make(map[rune]int)
	total := 0
	for _, r := range line {
		counts[r]++
		total++
	}

	entropy := 0.0
	for _, count := range counts {
		p := float64(count) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}
