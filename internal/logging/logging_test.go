package logging

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"  short  ", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer line of text", 8, "a longer..."},
		{"ééé", 3, "é..."},
		{"日本語のテキスト", 7, "日本..."},
	}
	for _, c := range cases {
		got := Truncate(c.in, c.max)
		if got != c.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", c.in, c.max, got, c.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("Truncate(%q, %d) produced invalid UTF-8", c.in, c.max)
		}
	}
}

func TestTruncateNeverSplitsRunes(t *testing.T) {
	s := strings.Repeat("ж", 50)
	for max := 0; max <= len(s); max++ {
		if got := Truncate(s, max); !utf8.ValidString(got) {
			t.Fatalf("max %d: invalid UTF-8 %q", max, got)
		}
	}
}
