package extract

import (
	"testing"

	"github.com/bimmerbailey/credsift/internal/config"
)

func TestFields(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		delimiter string
		want      []string
	}{
		{name: "colon pair", line: "user:pass", delimiter: ":", want: []string{"user", "pass"}},
		{name: "trims segments", line: " user : pass ", delimiter: ":", want: []string{"user", "pass"}},
		{name: "drops empty segments", line: "user::pass", delimiter: ":", want: []string{"user", "pass"}},
		{name: "whitespace fallback", line: "user pass hash", delimiter: "", want: []string{"user", "pass", "hash"}},
		{name: "single field", line: "loneword", delimiter: "", want: []string{"loneword"}},
		{name: "empty line", line: "", delimiter: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fields(tt.line, tt.delimiter)
			if len(got) != len(tt.want) {
				t.Fatalf("Fields(%q, %q) = %v, want %v", tt.line, tt.delimiter, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Fields(%q, %q)[%d] = %q, want %q", tt.line, tt.delimiter, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		delimiter string
		want      config.CredentialEntry
	}{
		{
			name:      "email password",
			line:      "admin@example.com:password123",
			delimiter: ":",
			want: config.CredentialEntry{
				Email:    "admin@example.com",
				Password: "password123",
			},
		},
		{
			name:      "email md5",
			line:      "admin@example.com:5f4dcc3b5aa765d61d8327deb882cf99",
			delimiter: ":",
			want: config.CredentialEntry{
				Email:        "admin@example.com",
				PasswordHash: "5f4dcc3b5aa765d61d8327deb882cf99",
				HashType:     "md5",
			},
		},
		{
			name:      "username password hash",
			line:      "manager|mgr123|0d107d09f5bbe40cade3de5c71e9e9b7",
			delimiter: "|",
			want: config.CredentialEntry{
				Username:     "manager",
				Password:     "mgr123",
				PasswordHash: "0d107d09f5bbe40cade3de5c71e9e9b7",
				HashType:     "md5",
			},
		},
		{
			name:      "bcrypt",
			line:      "admin@example.com:$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW",
			delimiter: ":",
			want: config.CredentialEntry{
				Email:        "admin@example.com",
				PasswordHash: "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW",
				HashType:     "bcrypt",
			},
		},
		{
			name:      "hash with salt",
			line:      "user1:5f4dcc3b5aa765d61d8327deb882cf99:abc123",
			delimiter: ":",
			want: config.CredentialEntry{
				Username:     "user1",
				PasswordHash: "5f4dcc3b5aa765d61d8327deb882cf99",
				HashType:     "md5",
				Salt:         "abc123",
			},
		},
		{
			name:      "ntlm context",
			line:      "ntlm:8846f7eaee8fb117ad06bdd830b7586c",
			delimiter: ":",
			want: config.CredentialEntry{
				Username:     "ntlm",
				PasswordHash: "8846f7eaee8fb117ad06bdd830b7586c",
				HashType:     "ntlm",
			},
		},
		{
			name:      "bare email",
			line:      "someone@example.com",
			delimiter: "",
			want: config.CredentialEntry{
				Email: "someone@example.com",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.line, tt.delimiter)

			if got.Email != tt.want.Email {
				t.Errorf("Email = %q, want %q", got.Email, tt.want.Email)
			}
			if got.Username != tt.want.Username {
				t.Errorf("Username = %q, want %q", got.Username, tt.want.Username)
			}
			if got.Password != tt.want.Password {
				t.Errorf("Password = %q, want %q", got.Password, tt.want.Password)
			}
			if got.PasswordHash != tt.want.PasswordHash {
				t.Errorf("PasswordHash = %q, want %q", got.PasswordHash, tt.want.PasswordHash)
			}
			if got.HashType != tt.want.HashType {
				t.Errorf("HashType = %q, want %q", got.HashType, tt.want.HashType)
			}
			if got.Salt != tt.want.Salt {
				t.Errorf("Salt = %q, want %q", got.Salt, tt.want.Salt)
			}
		})
	}
}

func TestParseAdditionalFields(t *testing.T) {
	got := Parse("john@mail.com:pass1:extra1:" + "averylongtrailingfieldthatwontfitasalt", ":")

	if got.Email != "john@mail.com" || got.Password != "pass1" {
		t.Fatalf("unexpected slot assignment: %+v", got)
	}
	if got.AdditionalFields["field_2"] != "extra1" {
		t.Errorf("AdditionalFields[field_2] = %q, want extra1", got.AdditionalFields["field_2"])
	}
	if got.AdditionalFields["field_3"] == "" {
		t.Error("long trailing field should land in AdditionalFields")
	}
}

func TestParseEmptyLine(t *testing.T) {
	got := Parse("", ":")
	if !got.IsEmpty() {
		t.Errorf("Parse(\"\") = %+v, want empty entry", got)
	}
}

func TestFormatLabel(t *testing.T) {
	tests := []struct {
		name      string
		entry     config.CredentialEntry
		delimiter string
		want      string
	}{
		{
			name:      "email password",
			entry:     config.CredentialEntry{Email: "a@b.com", Password: "x"},
			delimiter: ":",
			want:      "email:password",
		},
		{
			name:      "pipe separated",
			entry:     config.CredentialEntry{Username: "u", Password: "p", PasswordHash: "h"},
			delimiter: "|",
			want:      "username|password|hash",
		},
		{
			name:      "single slot",
			entry:     config.CredentialEntry{Email: "a@b.com"},
			delimiter: "",
			want:      "email",
		},
		{
			name:      "missing delimiter falls back to colon",
			entry:     config.CredentialEntry{Username: "u", PasswordHash: "h", Salt: "s"},
			delimiter: "",
			want:      "username:hash:salt",
		},
		{
			name:      "empty entry",
			entry:     config.CredentialEntry{},
			delimiter: ":",
			want:      "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatLabel(&tt.entry, tt.delimiter); got != tt.want {
				t.Errorf("FormatLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}
