// Package config provides configuration types and helpers for credsift.
package config

import (
	"fmt"
)

// Config holds the application-wide configuration.
type Config struct {
	Format        string     `mapstructure:"format"`
	Verbose       bool       `mapstructure:"verbose"`
	MinConfidence float64    `mapstructure:"min_confidence"`
	PreviewLines  int        `mapstructure:"preview_lines"`
	Heuristics    Heuristics `mapstructure:"heuristics"`
	LLM           LLMConfig  `mapstructure:"llm"`
}

// Heuristics holds the tunable weights and thresholds used by the line
// classifier. The defaults reproduce the shipped rule calibration; they can
// be overridden from the config file to recalibrate behavior without
// touching classification logic.
type Heuristics struct {
	// Credential rule weights
	EmailHashWeight    float64 `mapstructure:"email_hash_weight"`    // email + hash on one line
	EmailFieldWeight   float64 `mapstructure:"email_field_weight"`   // email + second delimited field
	HashFieldWeight    float64 `mapstructure:"hash_field_weight"`    // hash + second delimited field
	UsernamePairWeight float64 `mapstructure:"username_pair_weight"` // username-shaped field + second field
	BarePatternWeight  float64 `mapstructure:"bare_pattern_weight"`  // email or hash with no delimiter

	// Noise rule weights
	SeparatorWeight float64 `mapstructure:"separator_weight"`
	HeaderWeight    float64 `mapstructure:"header_weight"`
	FooterWeight    float64 `mapstructure:"footer_weight"`
	CommentWeight   float64 `mapstructure:"comment_weight"`

	// Entropy thresholds for the garbage fallback (bits per character)
	LowEntropy  float64 `mapstructure:"low_entropy"`
	HighEntropy float64 `mapstructure:"high_entropy"`
}

// DefaultHeuristics returns the shipped classifier calibration.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		EmailHashWeight:    0.95,
		EmailFieldWeight:   0.90,
		HashFieldWeight:    0.85,
		UsernamePairWeight: 0.70,
		BarePatternWeight:  0.50,
		SeparatorWeight:    0.90,
		HeaderWeight:       0.80,
		FooterWeight:       0.70,
		CommentWeight:      0.90,
		LowEntropy:         1.0,
		HighEntropy:        5.5,
	}
}

// LLMConfig holds configuration for the optional LLM-backed explain command.
type LLMConfig struct {
	// Provider selects which LLM to use. Only "ollama" is supported.
	Provider string `mapstructure:"provider"`

	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`

	Ollama OllamaConfig `mapstructure:"ollama"`
}

// OllamaConfig holds Ollama-specific settings.
type OllamaConfig struct {
	Host  string `mapstructure:"host"`  // API endpoint
	Model string `mapstructure:"model"` // Default model name
}

// Category classifies a single input line.
type Category string

const (
	CategoryValidCredential Category = "valid_credential"
	CategoryHeader          Category = "header"
	CategoryFooter          Category = "footer"
	CategoryComment         Category = "comment"
	CategorySeparator       Category = "separator"
	CategoryGarbage         Category = "garbage"
)

// HashType identifies a password hash algorithm by its shape.
type HashType string

const (
	HashMD5     HashType = "md5"
	HashSHA1    HashType = "sha1"
	HashSHA256  HashType = "sha256"
	HashSHA512  HashType = "sha512"
	HashBcrypt  HashType = "bcrypt"
	HashNTLM    HashType = "ntlm"
	HashUnknown HashType = "unknown"
)

// CredentialEntry is a normalized credential record. Optional fields are
// omitted from JSON output when unset; the metadata fields are always
// present.
type CredentialEntry struct {
	Email            string            `json:"email,omitempty"`
	Username         string            `json:"username,omitempty"`
	Password         string            `json:"password,omitempty"`
	PasswordHash     string            `json:"password_hash,omitempty"`
	HashType         string            `json:"hash_type,omitempty"`
	Salt             string            `json:"salt,omitempty"`
	AdditionalFields map[string]string `json:"additional_fields,omitempty"`

	Confidence     float64 `json:"confidence"`
	LineNumber     int     `json:"line_number"`
	DetectedFormat string  `json:"detected_format"`
}

// HasIdentity reports whether the entry names an account (email or username).
func (e *CredentialEntry) HasIdentity() bool {
	return e.Email != "" || e.Username != ""
}

// HasSecret reports whether the entry carries a password or password hash.
func (e *CredentialEntry) HasSecret() bool {
	return e.Password != "" || e.PasswordHash != ""
}

// IsEmpty reports whether no credential slot was populated. Empty entries
// must never be emitted.
func (e *CredentialEntry) IsEmpty() bool {
	return !e.HasIdentity() && !e.HasSecret()
}

// Stats accumulates per-run counters for one file's processing. A Stats
// value belongs to a single pipeline run and is never shared between
// concurrent runs.
type Stats struct {
	TotalLines            int              `json:"total_lines"`
	ValidCredentials      int              `json:"valid_credentials"`
	FilteredLowConfidence int              `json:"filtered_low_confidence"`
	Errors                int              `json:"errors"`
	Categories            map[Category]int `json:"categories"`
}

// NewStats returns a zeroed accumulator.
func NewStats() Stats {
	return Stats{Categories: make(map[Category]int)}
}

// Add merges other into s. Used to aggregate batch runs.
func (s *Stats) Add(other Stats) {
	s.TotalLines += other.TotalLines
	s.ValidCredentials += other.ValidCredentials
	s.FilteredLowConfidence += other.FilteredLowConfidence
	s.Errors += other.Errors
	if s.Categories == nil {
		s.Categories = make(map[Category]int)
	}
	for cat, n := range other.Categories {
		s.Categories[cat] += n
	}
}

// SuccessRate returns the fraction of input lines that produced a record.
func (s *Stats) SuccessRate() float64 {
	if s.TotalLines == 0 {
		return 0
	}
	return float64(s.ValidCredentials) / float64(s.TotalLines)
}

// String renders a short human-readable report.
func (s *Stats) String() string {
	return fmt.Sprintf(
		"Total lines: %d\nValid credentials: %d\nFiltered (low confidence): %d\nErrors: %d",
		s.TotalLines, s.ValidCredentials, s.FilteredLowConfidence, s.Errors)
}
