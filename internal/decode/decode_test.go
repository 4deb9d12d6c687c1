package decode

import (
	"testing"
)

func TestLineEncodingFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want string
	}{
		{
			name: "valid utf8 passthrough",
			raw:  []byte("caf\xc3\xa9:password"),
			want: "café:password",
		},
		{
			name: "ascii",
			raw:  []byte("user:pass"),
			want: "user:pass",
		},
		{
			name: "latin1 accented byte",
			raw:  []byte{'c', 'a', 'f', 0xE9},
			want: "café",
		},
		{
			name: "windows1252 smart quotes",
			raw:  []byte{0x93, 'h', 'i', 0x94},
			want: "“hi”",
		},
		{
			name: "empty",
			raw:  nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Line(tt.raw); got != tt.want {
				t.Errorf("Line(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "strips null bytes", input: "user\x00:pass", want: "user:pass"},
		{name: "strips control chars", input: "user\x01\x02:pass\x1b", want: "user:pass"},
		{name: "keeps tabs", input: "user\tpass", want: "user\tpass"},
		{name: "collapses space runs", input: "user    pass", want: "user pass"},
		{name: "trims edges", input: "   user:pass   ", want: "user:pass"},
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.input); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLineNeverPanicsOnBinary(t *testing.T) {
	inputs := [][]byte{
		{0xff, 0xfe, 0x00, 0x01},
		{0x80, 0x81, 0x82},
		{0xc3}, // truncated utf8 sequence
	}

	for _, raw := range inputs {
		_ = Line(raw)
	}
}
