// Package decode implements the input-side text contract: raw dump bytes
// are turned into clean UTF-8 lines before any feature extraction happens.
//
// Dumps arrive in whatever encoding the leaker's tooling produced. The
// fallback chain is UTF-8 → Latin-1 → Windows-1252 → replacement: valid
// UTF-8 passes through, other bytes are decoded as Latin-1 unless that
// yields C1 control characters (a tell for Windows-1252 smart punctuation),
// and bytes no mapping covers become the Unicode replacement character.
package decode

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Line decodes one raw input line and cleans it: encoding fallback, null
// and control-character stripping, edge trimming, and collapsing runs of
// spaces. Tabs survive cleaning because they are a delimiter candidate.
func Line(raw []byte) string {
	return Clean(decodeBytes(raw))
}

func decodeBytes(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}

	if s, err := charmap.ISO8859_1.NewDecoder().Bytes(raw); err == nil {
		decoded := string(s)
		if !hasC1Controls(decoded) {
			return decoded
		}
	}

	if s, err := charmap.Windows1252.NewDecoder().Bytes(raw); err == nil {
		return string(s)
	}

	// Last resort: per-byte replacement of anything non-ASCII.
	var b strings.Builder
	for _, c := range raw {
		if c < utf8.RuneSelf {
			b.WriteByte(c)
		} else {
			b.WriteRune(utf8.RuneError)
		}
	}
	return b.String()
}

// hasC1Controls reports whether s contains characters in U+0080..U+009F.
// Latin-1 maps the 0x80-0x9F byte range there, which real text never uses;
// their presence means the bytes were Windows-1252.
func hasC1Controls(s string) bool {
	for _, r := range s {
		if r >= 0x80 && r <= 0x9F {
			return true
		}
	}
	return false
}

// Clean strips null bytes and non-printable control characters (except
// tab), trims surrounding whitespace, and collapses runs of spaces into
// one.
func Clean(line string) string {
	var b strings.Builder
	b.Grow(len(line))

	prevSpace := false
	for _, r := range line {
		if r == '\x00' || (unicode.IsControl(r) && r != '\t') {
			continue
		}
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}

	return strings.TrimSpace(b.String())
}
