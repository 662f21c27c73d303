package index

import "testing"

func TestWithinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		max  int
		want bool
	}{
		{"hello", "hello", 0, true},
		{"hello", "hella", 1, true},
		{"hello", "hella", 0, false},
		{"hello", "hell", 1, true},
		{"hello", "helo", 1, true},
		{"hello", "ehllo", 2, true},
		{"hello", "world", 2, false},
		{"hello", "hxllx", 2, true},
		{"hello", "hxlxx", 2, false},
		{"", "", 0, true},
		{"", "ab", 1, false},
		{"", "ab", 2, true},
		{"kitten", "sitting", 3, true},
		{"kitten", "sitting", 2, false},
		{"café", "cafe", 1, true},
	}
	for _, tt := range tests {
		if got := withinDistance(tt.a, tt.b, tt.max); got != tt.want {
			t.Errorf("withinDistance(%q, %q, %d) = %v, want %v", tt.a, tt.b, tt.max, got, tt.want)
		}
	}
}

func TestWithinDistanceSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"hello", "helloworld"},
		{"worl", "world"},
		{"abc", "cba"},
	}
	for _, p := range pairs {
		for max := 0; max <= 3; max++ {
			if withinDistance(p[0], p[1], max) != withinDistance(p[1], p[0], max) {
				t.Errorf("withinDistance not symmetric for %q/%q at max %d", p[0], p[1], max)
			}
		}
	}
}

func TestPrefixWithinDistance(t *testing.T) {
	tests := []struct {
		word, term string
		max        int
		want       bool
	}{
		// "hella" is one edit from the prefix "hello" of "helloworld".
		{"hella", "helloworld", 1, true},
		{"hella", "helloworld", 0, false},
		{"hello", "helloworld", 0, true},
		{"hxllo", "helloworld", 1, true},
		{"world", "helloworld", 1, false},
	}
	for _, tt := range tests {
		if got := prefixWithinDistance(tt.word, tt.term, tt.max); got != tt.want {
			t.Errorf("prefixWithinDistance(%q, %q, %d) = %v, want %v",
				tt.word, tt.term, tt.max, got, tt.want)
		}
	}
}
