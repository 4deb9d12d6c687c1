package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/bimmerbailey/credsift/internal/config"
)

func newNormalizer(t *testing.T, minConfidence float64) *Normalizer {
	t.Helper()
	n, err := New(minConfidence, config.DefaultHeuristics())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return n
}

func collect(t *testing.T, n *Normalizer, input string) ([]config.CredentialEntry, config.Stats) {
	t.Helper()
	var entries []config.CredentialEntry
	stats, err := n.Run(strings.NewReader(input), func(e config.CredentialEntry) error {
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return entries, stats
}

func TestNewRejectsOutOfRangeConfidence(t *testing.T) {
	for _, v := range []float64{-0.1, 1.1, 2.0} {
		if _, err := New(v, config.DefaultHeuristics()); err == nil {
			t.Errorf("New(%v) expected error, got nil", v)
		}
	}
	for _, v := range []float64{0, 0.5, 1} {
		if _, err := New(v, config.DefaultHeuristics()); err != nil {
			t.Errorf("New(%v) unexpected error: %v", v, err)
		}
	}
}

func TestRunNormalizesMixedDump(t *testing.T) {
	input := strings.Join([]string{
		"# dumped from forum",
		"=====",
		"admin@example.com:password123",
		"admin@example.com:5f4dcc3b5aa765d61d8327deb882cf99",
		"manager|mgr123|0d107d09f5bbe40cade3de5c71e9e9b7",
		"",
		"Total rows: 3",
	}, "\n") + "\n"

	n := newNormalizer(t, 0.5)
	entries, stats := collect(t, n, input)

	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	first := entries[0]
	if first.Email != "admin@example.com" || first.Password != "password123" {
		t.Errorf("first entry = %+v", first)
	}
	if first.Confidence != 0.9 {
		t.Errorf("first confidence = %v, want 0.9", first.Confidence)
	}
	if first.LineNumber != 3 {
		t.Errorf("first line number = %d, want 3", first.LineNumber)
	}
	if first.DetectedFormat != "email:password" {
		t.Errorf("first detected format = %q, want email:password", first.DetectedFormat)
	}

	second := entries[1]
	if second.PasswordHash != "5f4dcc3b5aa765d61d8327deb882cf99" || second.HashType != "md5" {
		t.Errorf("second entry = %+v", second)
	}
	if second.Confidence != 0.95 {
		t.Errorf("second confidence = %v, want 0.95", second.Confidence)
	}

	third := entries[2]
	if third.Username != "manager" || third.Password != "mgr123" {
		t.Errorf("third entry = %+v", third)
	}
	if third.DetectedFormat != "username|password|hash" {
		t.Errorf("third detected format = %q, want username|password|hash", third.DetectedFormat)
	}

	if stats.TotalLines != 7 {
		t.Errorf("TotalLines = %d, want 7", stats.TotalLines)
	}
	if stats.ValidCredentials != 3 {
		t.Errorf("ValidCredentials = %d, want 3", stats.ValidCredentials)
	}
	if stats.Categories[config.CategoryComment] != 1 {
		t.Errorf("comment count = %d, want 1", stats.Categories[config.CategoryComment])
	}
	if stats.Categories[config.CategorySeparator] != 1 {
		t.Errorf("separator count = %d, want 1", stats.Categories[config.CategorySeparator])
	}
	if stats.Categories[config.CategoryFooter] != 1 {
		t.Errorf("footer count = %d, want 1", stats.Categories[config.CategoryFooter])
	}
	// The blank line counts as garbage.
	if stats.Categories[config.CategoryGarbage] != 1 {
		t.Errorf("garbage count = %d, want 1", stats.Categories[config.CategoryGarbage])
	}
}

func TestRunConfidenceFilter(t *testing.T) {
	// A username:password pair scores 0.70 and must be filtered at 0.8.
	input := "john.doe:secret\nadmin@example.com:password123\n"

	n := newNormalizer(t, 0.8)
	entries, stats := collect(t, n, input)

	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Email != "admin@example.com" {
		t.Errorf("surviving entry = %+v", entries[0])
	}
	if stats.FilteredLowConfidence != 1 {
		t.Errorf("FilteredLowConfidence = %d, want 1", stats.FilteredLowConfidence)
	}
	// Filtered credential lines still count toward the credential category.
	if stats.Categories[config.CategoryValidCredential] != 2 {
		t.Errorf("credential category count = %d, want 2", stats.Categories[config.CategoryValidCredential])
	}
}

func TestRunThresholdMonotonicity(t *testing.T) {
	input := strings.Join([]string{
		"john.doe:secret",
		"admin@example.com:password123",
		"manager|mgr123|0d107d09f5bbe40cade3de5c71e9e9b7",
		"someone@example.com",
	}, "\n") + "\n"

	prev := -1
	for _, threshold := range []float64{0.0, 0.5, 0.8, 0.99} {
		n := newNormalizer(t, threshold)
		entries, _ := collect(t, n, input)
		if prev >= 0 && len(entries) > prev {
			t.Errorf("threshold %v emitted %d entries, more than lower threshold's %d",
				threshold, len(entries), prev)
		}
		prev = len(entries)
	}
}

func TestRunEmitErrorStopsRun(t *testing.T) {
	input := "a@b.com:x1\nc@d.com:x2\ne@f.com:x3\n"
	sentinel := errors.New("stop")

	n := newNormalizer(t, 0.5)
	calls := 0
	stats, err := n.Run(strings.NewReader(input), func(config.CredentialEntry) error {
		calls++
		return sentinel
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("Run() error = %v, want sentinel", err)
	}
	if calls != 1 {
		t.Errorf("emit called %d times, want 1", calls)
	}
	if stats.TotalLines != 1 {
		t.Errorf("TotalLines = %d, want 1 (partial stats)", stats.TotalLines)
	}
}

func TestRunMissingTrailingNewline(t *testing.T) {
	n := newNormalizer(t, 0.5)
	entries, stats := collect(t, n, "admin@example.com:password123")

	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if stats.TotalLines != 1 {
		t.Errorf("TotalLines = %d, want 1", stats.TotalLines)
	}
}

func TestRunVeryLongLine(t *testing.T) {
	// Lines beyond bufio.Scanner's default token size must not abort the run.
	long := strings.Repeat("a", 2*1024*1024)
	input := long + "\nadmin@example.com:password123\n"

	n := newNormalizer(t, 0.5)
	entries, stats := collect(t, n, input)

	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if stats.TotalLines != 2 {
		t.Errorf("TotalLines = %d, want 2", stats.TotalLines)
	}
}

func TestRunCRLFInput(t *testing.T) {
	n := newNormalizer(t, 0.5)
	entries, _ := collect(t, n, "admin@example.com:password123\r\n")

	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Password != "password123" {
		t.Errorf("Password = %q, carriage return not stripped", entries[0].Password)
	}
}

func TestRunIndependentStats(t *testing.T) {
	n := newNormalizer(t, 0.5)

	_, first := collect(t, n, "admin@example.com:password123\n")
	_, second := collect(t, n, "=====\n")

	if first.TotalLines != 1 || second.TotalLines != 1 {
		t.Errorf("stats leaked between runs: first=%+v second=%+v", first, second)
	}
	if second.ValidCredentials != 0 {
		t.Errorf("second run ValidCredentials = %d, want 0", second.ValidCredentials)
	}
}

func TestNormalizeLine(t *testing.T) {
	n := newNormalizer(t, 0.5)

	entry, result := n.NormalizeLine("admin@example.com:password123", 7)
	if entry == nil {
		t.Fatalf("NormalizeLine() entry = nil, result = %+v", result)
	}
	if entry.LineNumber != 7 {
		t.Errorf("LineNumber = %d, want 7", entry.LineNumber)
	}

	entry, result = n.NormalizeLine("=====", 8)
	if entry != nil {
		t.Errorf("NormalizeLine(separator) entry = %+v, want nil", entry)
	}
	if result.Category != config.CategorySeparator {
		t.Errorf("category = %v, want separator", result.Category)
	}
}

func BenchmarkRun(b *testing.B) {
	line := "admin@example.com:5f4dcc3b5aa765d61d8327deb882cf99\n"
	input := strings.Repeat(line, 1000)
	n, err := New(0.5, config.DefaultHeuristics())
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = n.Run(strings.NewReader(input), func(config.CredentialEntry) error { return nil })
	}
}
