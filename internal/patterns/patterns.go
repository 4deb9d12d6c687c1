// Package patterns is the stateless pattern library for credential dump
// parsing: email, hash shape, username shape, delimiter candidates, and the
// noise shapes (separators, headers, footers, comments).
//
// All functions are pure and never fail; unmatched input reports "no match"
// for any input including empty strings and binary garbage.
package patterns

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/bimmerbailey/credsift/internal/config"
)

var (
	// Email addresses: user@example.com. The domain must contain a dot.
	emailRegex = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	// Anchored variant for whole-field checks.
	emailFieldRegex = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

	// Hex digest shapes by exact length.
	md5Regex    = regexp.MustCompile(`\b[a-fA-F0-9]{32}\b`)
	sha1Regex   = regexp.MustCompile(`\b[a-fA-F0-9]{40}\b`)
	sha256Regex = regexp.MustCompile(`\b[a-fA-F0-9]{64}\b`)
	sha512Regex = regexp.MustCompile(`\b[a-fA-F0-9]{128}\b`)

	// Anchored variants for whole-field hash identification.
	md5FieldRegex    = regexp.MustCompile(`^[a-fA-F0-9]{32}$`)
	sha1FieldRegex   = regexp.MustCompile(`^[a-fA-F0-9]{40}$`)
	sha256FieldRegex = regexp.MustCompile(`^[a-fA-F0-9]{64}$`)
	sha512FieldRegex = regexp.MustCompile(`^[a-fA-F0-9]{128}$`)

	// bcrypt: $2a$/$2b$/$2y$ prefix, two-digit cost, 53 chars of salt+digest.
	bcryptRegex      = regexp.MustCompile(`\$2[ayb]\$\d{2}\$[./A-Za-z0-9]{53}`)
	bcryptFieldRegex = regexp.MustCompile(`^\$2[ayb]\$\d{2}\$[./A-Za-z0-9]{53}$`)

	// Username shape: alphanumeric plus dot/underscore/hyphen, 3-32 chars.
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,32}$`)

	// Header rows name their columns: the keyword must stand alone at the
	// start of the line, immediately followed by a delimiter or end of line.
	headerKeywordRegex = regexp.MustCompile(`(?i)^(username|email|password|hash|user|pass|login)\s*([:|;,=\t-]|$)`)

	// Dump banners and titles.
	bannerKeywordRegex = regexp.MustCompile(`(?i)(database|dump|leak|breach|combo)`)

	// Trailing summary lines.
	footerKeywordRegex = regexp.MustCompile(`(?i)\b(total|end of|exported|rows)\b`)

	// Lines composed entirely of separator punctuation.
	separatorRegex = regexp.MustCompile(`^[\s\-=*#_~+]+$`)
)

// delimiters is the fixed candidate set, in precedence order.
var delimiters = []string{":", "|", ";", "\t", ",", "--", "=="}

// Delimiters returns the delimiter candidate set in precedence order.
// The returned slice must not be modified.
func Delimiters() []string {
	return delimiters
}

// ContainsEmail reports whether s contains an email address.
func ContainsEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// IsEmail reports whether s as a whole is an email address.
func IsEmail(s string) bool {
	return emailFieldRegex.MatchString(s)
}

// IsUsername reports whether s as a whole is a plausible username.
func IsUsername(s string) bool {
	return usernameRegex.MatchString(s)
}

// ContainsHash scans s for any recognized hash shape and returns the
// strongest candidate type. Longer digests are checked first so a SHA-512
// is not reported as an embedded MD5.
func ContainsHash(s string) (config.HashType, bool) {
	switch {
	case bcryptRegex.MatchString(s):
		return config.HashBcrypt, true
	case sha512Regex.MatchString(s):
		return config.HashSHA512, true
	case sha256Regex.MatchString(s):
		return config.HashSHA256, true
	case sha1Regex.MatchString(s):
		return config.HashSHA1, true
	case md5Regex.MatchString(s):
		// 32 hex chars could also be NTLM; see IdentifyHash.
		return config.HashMD5, true
	}
	return config.HashUnknown, false
}

// IdentifyHash classifies a whole field as a hash. A 32-hex-character field
// is ambiguous between MD5 and NTLM; without further context it is reported
// as MD5.
func IdentifyHash(field string) config.HashType {
	field = strings.TrimSpace(field)
	switch {
	case bcryptFieldRegex.MatchString(field):
		return config.HashBcrypt
	case sha512FieldRegex.MatchString(field):
		return config.HashSHA512
	case sha256FieldRegex.MatchString(field):
		return config.HashSHA256
	case sha1FieldRegex.MatchString(field):
		return config.HashSHA1
	case md5FieldRegex.MatchString(field):
		return config.HashMD5
	}
	return config.HashUnknown
}

// IsSeparator reports whether line is a visual separator: either it matches
// the separator character class, or it is a single punctuation character
// repeated at least three times, or at least 80% of its characters are
// punctuation.
func IsSeparator(line string) bool {
	if line == "" {
		return false
	}
	if separatorRegex.MatchString(line) {
		return true
	}
	runes := []rune(line)
	if len(runes) >= 3 && unicode.IsPunct(runes[0]) || len(runes) >= 3 && unicode.IsSymbol(runes[0]) {
		same := true
		for _, r := range runes[1:] {
			if r != runes[0] {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	punct := 0
	for _, r := range runes {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			punct++
		}
	}
	return float64(punct)/float64(len(runes)) >= 0.8
}

// HasHeaderKeyword reports whether line starts with a column-name keyword
// such as "username:" or "email,".
func HasHeaderKeyword(line string) bool {
	return headerKeywordRegex.MatchString(line)
}

// HasBannerKeyword reports whether line mentions dump/leak banner words.
func HasBannerKeyword(line string) bool {
	return bannerKeywordRegex.MatchString(line)
}

// HasFooterKeyword reports whether line looks like a trailing summary.
func HasFooterKeyword(line string) bool {
	return footerKeywordRegex.MatchString(line)
}

// IsComment reports whether the first non-whitespace characters of line are
// a comment marker ("#" or "//").
func IsComment(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//")
}
