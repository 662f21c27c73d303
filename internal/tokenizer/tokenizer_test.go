package tokenizer

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"simple", "hello world", []string{"hello", "world"}},
		{"lowercases", "Hello WORLD", []string{"hello", "world"}},
		{"punctuation splits", "new-york, city!", []string{"new", "york", "city"}},
		{"digits kept", "summer 2020", []string{"summer", "2020"}},
		{"collapsed whitespace", "  hello   world  ", []string{"hello", "world"}},
		{"empty", "", nil},
		{"only punctuation", "?!...", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words := Tokenize(tt.raw)
			got := Texts(words)
			if len(got) == 0 {
				got = nil
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) texts = %v, want %v", tt.raw, got, tt.want)
			}
			for i, w := range words {
				if w.Position != i {
					t.Errorf("word %d has position %d", i, w.Position)
				}
			}
		})
	}
}

func TestTokenizePositionsContiguous(t *testing.T) {
	words := Tokenize("this, is -- a test")
	if len(words) != 4 {
		t.Fatalf("got %d words, want 4", len(words))
	}
	for i, w := range words {
		if w.Position != i {
			t.Errorf("words[%d].Position = %d, want %d", i, w.Position, i)
		}
	}
}
