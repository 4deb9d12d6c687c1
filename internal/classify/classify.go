// Package classify maps feature vectors to line categories.
//
// The classifier is an ordered table of weighted rules. Each rule inspects
// the feature vector (and the raw line for tie-break context) and votes for
// one category with a weight; the per-category score is the sum of fired
// weights. Credential rules sit first in the table so credential evidence is
// always evaluated before noise evidence.
//
// Winner selection: a line on which any credential pattern (email or hash)
// matched is classified valid_credential regardless of competing noise
// scores. Otherwise the highest-scoring category wins, and an exact tie
// resolves to garbage rather than silently promoting an ambiguous line to
// header or footer. The winner's confidence is the strongest fired rule
// weight for that category.
package classify

import (
	"strings"

	"github.com/bimmerbailey/credsift/internal/config"
	"github.com/bimmerbailey/credsift/internal/features"
	"github.com/bimmerbailey/credsift/internal/patterns"
)

// Result is the classification outcome for one line.
type Result struct {
	Category     config.Category `json:"category"`
	Confidence   float64         `json:"confidence"`
	MatchedRules []string        `json:"matched_rules,omitempty"`
}

// Rule is one entry of the classifier table. Weight returns the rule's vote
// for its category, or 0 when the rule does not fire.
type Rule struct {
	ID       string
	Category config.Category
	Weight   func(fv features.Vector, line string) float64
}

// Classifier evaluates the rule table against feature vectors.
// It is stateless after construction and safe for concurrent use.
type Classifier struct {
	rules []Rule
	heur  config.Heuristics
}

// New builds a classifier from the given calibration.
func New(heur config.Heuristics) *Classifier {
	c := &Classifier{heur: heur}
	c.rules = c.buildRules()
	return c
}

// Line is a standalone probe: it extracts features and classifies a single
// line using the default calibration. Used by preview tooling.
func Line(line string) Result {
	c := New(config.DefaultHeuristics())
	return c.Classify(line, features.Extract(line))
}

// Classify evaluates the rule table for one line.
func (c *Classifier) Classify(line string, fv features.Vector) Result {
	scores := make(map[config.Category]float64)
	best := make(map[config.Category]float64)
	var fired []string

	for _, rule := range c.rules {
		w := rule.Weight(fv, line)
		if w <= 0 {
			continue
		}
		scores[rule.Category] += w
		if w > best[rule.Category] {
			best[rule.Category] = w
		}
		fired = append(fired, rule.ID)
	}

	// Credential detection takes precedence over noise filtering: any
	// pattern-library credential match forces the credential category.
	if (fv.HasEmail || fv.HasHash) && scores[config.CategoryValidCredential] > 0 {
		return Result{
			Category:     config.CategoryValidCredential,
			Confidence:   clamp(best[config.CategoryValidCredential]),
			MatchedRules: fired,
		}
	}

	winner := config.CategoryGarbage
	top := 0.0
	tied := false
	for _, cat := range categoryOrder {
		score := scores[cat]
		if score == 0 {
			continue
		}
		if score > top {
			winner = cat
			top = score
			tied = false
		} else if score == top {
			tied = true
		}
	}

	if top == 0 {
		// Nothing fired: unclassifiable line, certain noise.
		return Result{Category: config.CategoryGarbage, Confidence: 1.0}
	}
	if tied {
		return Result{Category: config.CategoryGarbage, Confidence: clamp(top), MatchedRules: fired}
	}

	return Result{Category: winner, Confidence: clamp(best[winner]), MatchedRules: fired}
}

// categoryOrder fixes the iteration order so equal scores are compared
// deterministically.
var categoryOrder = []config.Category{
	config.CategoryValidCredential,
	config.CategorySeparator,
	config.CategoryHeader,
	config.CategoryFooter,
	config.CategoryComment,
	config.CategoryGarbage,
}

func (c *Classifier) buildRules() []Rule {
	heur := c.heur
	return []Rule{
		{
			ID:       "cred_email_hash",
			Category: config.CategoryValidCredential,
			Weight: func(fv features.Vector, _ string) float64 {
				if fv.HasEmail && fv.HasHash {
					return heur.EmailHashWeight
				}
				return 0
			},
		},
		{
			ID:       "cred_email_field",
			Category: config.CategoryValidCredential,
			Weight: func(fv features.Vector, _ string) float64 {
				if fv.HasEmail && fv.Delimiter != "" && fv.FieldCount >= 2 {
					return heur.EmailFieldWeight
				}
				return 0
			},
		},
		{
			ID:       "cred_hash_field",
			Category: config.CategoryValidCredential,
			Weight: func(fv features.Vector, _ string) float64 {
				if fv.HasHash && fv.Delimiter != "" && fv.FieldCount >= 2 {
					return heur.HashFieldWeight
				}
				return 0
			},
		},
		{
			ID:       "cred_username_pair",
			Category: config.CategoryValidCredential,
			Weight: func(fv features.Vector, line string) float64 {
				if fv.Delimiter == "" || fv.FieldCount < 2 {
					return 0
				}
				segs := strings.Split(line, fv.Delimiter)
				if !patterns.IsUsername(strings.TrimSpace(segs[0])) {
					return 0
				}
				for _, seg := range segs[1:] {
					if strings.TrimSpace(seg) != "" {
						return heur.UsernamePairWeight
					}
				}
				return 0
			},
		},
		{
			ID:       "cred_bare_pattern",
			Category: config.CategoryValidCredential,
			Weight: func(fv features.Vector, _ string) float64 {
				if fv.Delimiter == "" && (fv.HasEmail || fv.HasHash) {
					return heur.BarePatternWeight
				}
				return 0
			},
		},
		{
			ID:       "sep_shape",
			Category: config.CategorySeparator,
			Weight: func(_ features.Vector, line string) float64 {
				if patterns.IsSeparator(line) {
					return heur.SeparatorWeight
				}
				return 0
			},
		},
		{
			ID:       "comment_marker",
			Category: config.CategoryComment,
			Weight: func(_ features.Vector, line string) float64 {
				if patterns.IsComment(line) {
					return heur.CommentWeight
				}
				return 0
			},
		},
		{
			ID:       "header_columns",
			Category: config.CategoryHeader,
			Weight: func(_ features.Vector, line string) float64 {
				if patterns.HasHeaderKeyword(line) {
					return heur.HeaderWeight
				}
				return 0
			},
		},
		{
			ID:       "header_banner",
			Category: config.CategoryHeader,
			Weight: func(_ features.Vector, line string) float64 {
				if patterns.HasBannerKeyword(line) {
					return heur.HeaderWeight
				}
				return 0
			},
		},
		{
			ID:       "header_upper",
			Category: config.CategoryHeader,
			Weight: func(fv features.Vector, line string) float64 {
				if fv.Delimiter != "" || fv.Length == 0 || fv.Length > 30 {
					return 0
				}
				if fv.AlphaRatio > 0 && line == strings.ToUpper(line) && line != strings.ToLower(line) {
					return heur.HeaderWeight * 0.75
				}
				return 0
			},
		},
		{
			ID:       "footer_summary",
			Category: config.CategoryFooter,
			Weight: func(_ features.Vector, line string) float64 {
				if patterns.HasFooterKeyword(line) {
					return heur.FooterWeight
				}
				return 0
			},
		},
		{
			ID:       "garbage_short",
			Category: config.CategoryGarbage,
			Weight: func(_ features.Vector, line string) float64 {
				if len(strings.TrimSpace(line)) < 3 {
					return 1.0
				}
				return 0
			},
		},
		{
			ID:       "garbage_low_entropy",
			Category: config.CategoryGarbage,
			Weight: func(fv features.Vector, line string) float64 {
				if fv.HasEmail || fv.HasHash || patterns.IsSeparator(line) {
					return 0
				}
				if len(strings.TrimSpace(line)) < 3 || fv.Entropy >= heur.LowEntropy {
					return 0
				}
				// Confidence grows with distance below the threshold.
				return clamp(0.5 + 0.5*(heur.LowEntropy-fv.Entropy)/heur.LowEntropy)
			},
		},
		{
			ID:       "garbage_high_entropy",
			Category: config.CategoryGarbage,
			Weight: func(fv features.Vector, line string) float64 {
				if fv.HasEmail || fv.HasHash || fv.Entropy <= heur.HighEntropy {
					return 0
				}
				return clamp(0.5 + 0.25*(fv.Entropy-heur.HighEntropy))
			},
		},
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
