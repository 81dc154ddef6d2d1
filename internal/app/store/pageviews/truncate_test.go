package pageviewstore

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short", "/docs", 10, "/docs"},
		{"exact", "/docs", 5, "/docs"},
		{"ascii cut", "/documentation", 5, "/docu"},
		{"backs off mid rune", "/é", 2, "/"},
		{"keeps whole rune", "/é", 3, "/é"},
		{"four byte rune", "a😀b", 4, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.in, tt.max); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestTruncate_LongNonASCIIPathStaysValid(t *testing.T) {
	in := "/" + strings.Repeat("é", 1100)
	got := truncate(in, 2048)
	if !utf8.ValidString(got) {
		t.Fatalf("result is not valid UTF-8 (len %d)", len(got))
	}
	if len(got) > 2048 {
		t.Errorf("len = %d, want <= 2048", len(got))
	}
	if len(got) != 2047 {
		t.Errorf("len = %d, want 2047 (last whole rune)", len(got))
	}
}
