package analysis

import (
	"errors"
	"testing"
)

// TestAlphabetIsWord tests the word predicate under both policies.
func TestAlphabetIsWord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token   string
		ascii   bool
		unicode bool
	}{
		{token: "cat", ascii: true, unicode: true},
		{token: "R2D2", ascii: true, unicode: true},
		{token: "don't", ascii: true, unicode: true},
		{token: ".", ascii: false, unicode: false},
		{token: "42", ascii: false, unicode: false},
		{token: "3.14", ascii: false, unicode: false},
		{token: "--", ascii: false, unicode: false},
		{token: "", ascii: false, unicode: false},
		{token: "日本", ascii: false, unicode: true},
		{token: "éte", ascii: true, unicode: true},
		{token: "λόγος", ascii: false, unicode: true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			t.Parallel()
			if got := AlphabetASCII.IsWord(tt.token); got != tt.ascii {
				t.Errorf("ASCII.IsWord(%q) = %v, expected %v", tt.token, got, tt.ascii)
			}
			if got := AlphabetUnicode.IsWord(tt.token); got != tt.unicode {
				t.Errorf("Unicode.IsWord(%q) = %v, expected %v", tt.token, got, tt.unicode)
			}
		})
	}
}

// TestParseAlphabet tests alphabet name parsing.
func TestParseAlphabet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected Alphabet
		wantErr  bool
	}{
		{input: "", expected: AlphabetASCII},
		{input: "ascii", expected: AlphabetASCII},
		{input: " ASCII ", expected: AlphabetASCII},
		{input: "unicode", expected: AlphabetUnicode},
		{input: "Unicode", expected: AlphabetUnicode},
		{input: "latin1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseAlphabet(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownAlphabet) {
					t.Errorf("expected ErrUnknownAlphabet, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("ParseAlphabet(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

// TestAlphabetString tests round-tripping names.
func TestAlphabetString(t *testing.T) {
	t.Parallel()

	for _, a := range []Alphabet{AlphabetASCII, AlphabetUnicode} {
		parsed, err := ParseAlphabet(a.String())
		if err != nil || parsed != a {
			t.Errorf("round trip of %v failed: %v, %v", a, parsed, err)
		}
	}
	if got := Alphabet(9).String(); got != "Alphabet(9)" {
		t.Errorf("unexpected string %q", got)
	}
}
