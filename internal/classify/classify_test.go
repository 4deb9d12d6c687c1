package classify

import (
	"math"
	"strings"
	"testing"

	"github.com/bimmerbailey/credsift/internal/config"
	"github.com/bimmerbailey/credsift/internal/features"
)

func classifyLine(t *testing.T, line string) Result {
	t.Helper()
	c := New(config.DefaultHeuristics())
	return c.Classify(line, features.Extract(line))
}

func TestClassifyCategories(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantCategory config.Category
	}{
		{
			name:         "email password pair",
			input:        "admin@example.com:password123",
			wantCategory: config.CategoryValidCredential,
		},
		{
			name:         "email hash pair",
			input:        "admin@example.com:5f4dcc3b5aa765d61d8327deb882cf99",
			wantCategory: config.CategoryValidCredential,
		},
		{
			name:         "username password hash triple",
			input:        "manager|mgr123|0d107d09f5bbe40cade3de5c71e9e9b7",
			wantCategory: config.CategoryValidCredential,
		},
		{
			name:         "bare email",
			input:        "someone@example.com",
			wantCategory: config.CategoryValidCredential,
		},
		{
			name:         "separator run",
			input:        "=====",
			wantCategory: config.CategorySeparator,
		},
		{
			name:         "long punctuation run",
			input:        strings.Repeat("!", 10000),
			wantCategory: config.CategorySeparator,
		},
		{
			name:         "comment",
			input:        "# dumped 2023-01-15",
			wantCategory: config.CategoryComment,
		},
		{
			name:         "column header",
			input:        "username:password",
			wantCategory: config.CategoryHeader,
		},
		{
			name:         "banner",
			input:        "MySQL database dump for example.org",
			wantCategory: config.CategoryHeader,
		},
		{
			name:         "footer summary",
			input:        "Total rows: 5000",
			wantCategory: config.CategoryFooter,
		},
		{
			name:         "too short",
			input:        "ab",
			wantCategory: config.CategoryGarbage,
		},
		{
			name:         "empty",
			input:        "",
			wantCategory: config.CategoryGarbage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyLine(t, tt.input)
			if got.Category != tt.wantCategory {
				t.Errorf("Classify(%q) category = %v (rules %v), want %v",
					tt.input, got.Category, got.MatchedRules, tt.wantCategory)
			}
		})
	}
}

func TestClassifyConfidence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "email with field", input: "admin@example.com:password123", want: 0.90},
		{name: "email with hash", input: "admin@example.com:5f4dcc3b5aa765d61d8327deb882cf99", want: 0.95},
		{name: "hash with field", input: "manager|mgr123|0d107d09f5bbe40cade3de5c71e9e9b7", want: 0.85},
		{name: "bare email", input: "someone@example.com", want: 0.50},
		{name: "username pair only", input: "john.doe:secret", want: 0.70},
		{name: "separator", input: "=====", want: 0.90},
		{name: "unclassifiable is certain garbage", input: "x", want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyLine(t, tt.input)
			if math.Abs(got.Confidence-tt.want) > 1e-9 {
				t.Errorf("Classify(%q) confidence = %v (rules %v), want %v",
					tt.input, got.Confidence, got.MatchedRules, tt.want)
			}
		})
	}
}

func TestClassifyCredentialPrecedence(t *testing.T) {
	// A line with a hash inside a bannerish sentence still classifies as a
	// credential: pattern evidence beats noise evidence.
	got := classifyLine(t, "leak:5f4dcc3b5aa765d61d8327deb882cf99")
	if got.Category != config.CategoryValidCredential {
		t.Errorf("category = %v (rules %v), want valid_credential", got.Category, got.MatchedRules)
	}
}

func TestClassifyTieResolvesToGarbage(t *testing.T) {
	// "total:123" fires the footer summary rule and the username pair rule
	// at the same default weight; the tie must demote to garbage.
	got := classifyLine(t, "total:123")
	if got.Category != config.CategoryGarbage {
		t.Errorf("category = %v (rules %v), want garbage on tie", got.Category, got.MatchedRules)
	}
	if math.Abs(got.Confidence-0.70) > 1e-9 {
		t.Errorf("confidence = %v, want 0.70", got.Confidence)
	}
}

func TestClassifyHighEntropyGarbage(t *testing.T) {
	line := "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	got := classifyLine(t, line)

	if got.Category != config.CategoryGarbage {
		t.Fatalf("category = %v (rules %v), want garbage", got.Category, got.MatchedRules)
	}
	if got.Confidence <= 0.5 {
		t.Errorf("confidence = %v, want > 0.5 for entropy far above threshold", got.Confidence)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	c := New(config.DefaultHeuristics())
	line := "admin@example.com:password123"
	fv := features.Extract(line)

	first := c.Classify(line, fv)
	second := c.Classify(line, fv)

	if first.Category != second.Category || first.Confidence != second.Confidence {
		t.Errorf("repeated classification differs: %+v vs %+v", first, second)
	}
}

func TestClassifyCustomHeuristics(t *testing.T) {
	heur := config.DefaultHeuristics()
	heur.SeparatorWeight = 0.55
	c := New(heur)

	got := c.Classify("=====", features.Extract("====="))
	if got.Category != config.CategorySeparator {
		t.Fatalf("category = %v, want separator", got.Category)
	}
	if math.Abs(got.Confidence-0.55) > 1e-9 {
		t.Errorf("confidence = %v, want recalibrated 0.55", got.Confidence)
	}
}

func TestLine(t *testing.T) {
	got := Line("admin@example.com:password123")
	if got.Category != config.CategoryValidCredential {
		t.Errorf("Line() category = %v, want valid_credential", got.Category)
	}
}

func BenchmarkClassify(b *testing.B) {
	c := New(config.DefaultHeuristics())
	line := "admin@example.com:5f4dcc3b5aa765d61d8327deb882cf99"
	fv := features.Extract(line)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Classify(line, fv)
	}
}
