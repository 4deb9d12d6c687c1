// Package extract splits classified credential lines into semantic fields.
package extract

import (
	"strconv"
	"strings"

	"github.com/bimmerbailey/credsift/internal/config"
	"github.com/bimmerbailey/credsift/internal/patterns"
)

// Fields splits line on the detected delimiter and trims each segment.
// With no delimiter it falls back to whitespace splitting, and a line with
// no whitespace comes back as a single field. Empty segments are dropped.
func Fields(line, delimiter string) []string {
	if delimiter == "" {
		fields := strings.Fields(line)
		if len(fields) <= 1 {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				return nil
			}
			return []string{trimmed}
		}
		return fields
	}

	var fields []string
	for _, seg := range strings.Split(line, delimiter) {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			fields = append(fields, seg)
		}
	}
	return fields
}

// Parse assigns the line's fields to credential slots.
//
// Fields are inspected in order: the first email-shaped field becomes the
// email, the first hash-shaped field becomes the password hash, a
// username-shaped field becomes the username only when no email was seen,
// and the first remaining field before any hash becomes the plaintext
// password. A short leftover after an identified hash is taken as its salt.
// Everything else is preserved verbatim in AdditionalFields keyed by
// position.
//
// Parse never fails; a line it cannot decompose yields an empty entry,
// which the pipeline demotes to the garbage counter instead of emitting.
func Parse(line, delimiter string) config.CredentialEntry {
	var entry config.CredentialEntry

	fields := Fields(line, delimiter)
	if len(fields) == 0 {
		return entry
	}

	emailFound := false
	hashFound := false

	for i, field := range fields {
		if !emailFound && patterns.IsEmail(field) {
			entry.Email = field
			emailFound = true
			continue
		}

		if !hashFound {
			if ht := patterns.IdentifyHash(field); ht != config.HashUnknown {
				entry.PasswordHash = field
				entry.HashType = string(disambiguate(ht, line))
				hashFound = true
				continue
			}
		}

		if entry.Username == "" && !emailFound && patterns.IsUsername(field) {
			entry.Username = field
			continue
		}

		if entry.Password == "" && !hashFound {
			entry.Password = field
			continue
		}

		if hashFound && entry.Salt == "" && len(field) <= 16 {
			entry.Salt = field
			continue
		}

		if entry.AdditionalFields == nil {
			entry.AdditionalFields = make(map[string]string)
		}
		entry.AdditionalFields["field_"+strconv.Itoa(i)] = field
	}

	return entry
}

// disambiguate resolves the MD5/NTLM length collision. A 32-hex digest is
// reported as NTLM only when the line itself says so; otherwise MD5.
func disambiguate(ht config.HashType, line string) config.HashType {
	if ht == config.HashMD5 && strings.Contains(strings.ToLower(line), "ntlm") {
		return config.HashNTLM
	}
	return ht
}

// FormatLabel builds the detected_format label for an entry: the names of
// the populated slots joined by the detected delimiter, e.g.
// "email:password" or "username|hash". Single-field entries yield the bare
// slot name; an entry with nothing populated is labeled "unknown".
func FormatLabel(entry *config.CredentialEntry, delimiter string) string {
	var parts []string
	if entry.Email != "" {
		parts = append(parts, "email")
	}
	if entry.Username != "" {
		parts = append(parts, "username")
	}
	if entry.Password != "" {
		parts = append(parts, "password")
	}
	if entry.PasswordHash != "" {
		parts = append(parts, "hash")
	}
	if entry.Salt != "" {
		parts = append(parts, "salt")
	}

	if len(parts) == 0 {
		return "unknown"
	}
	if delimiter == "" {
		delimiter = ":"
	}
	return strings.Join(parts, delimiter)
}
