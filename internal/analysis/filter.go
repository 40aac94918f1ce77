package analysis

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrUnknownAlphabet is returned by ParseAlphabet for an unsupported name.
var ErrUnknownAlphabet = errors.New("unknown alphabet")

// Alphabet decides which characters count as alphabetic when telling
// words apart from punctuation and numbers.
//
// Design decision: The policy is a value rather than a hard-coded ASCII
// check so that deployments analysing non-English pages can opt into
// Unicode letters without changing the default behaviour.
type Alphabet int

const (
	// AlphabetASCII accepts tokens containing at least one of A-Z or a-z.
	// This is the default.
	AlphabetASCII Alphabet = iota

	// AlphabetUnicode accepts tokens containing at least one Unicode letter.
	AlphabetUnicode
)

// String returns the configuration name of the alphabet.
func (a Alphabet) String() string {
	switch a {
	case AlphabetASCII:
		return "ascii"
	case AlphabetUnicode:
		return "unicode"
	default:
		return fmt.Sprintf("Alphabet(%d)", int(a))
	}
}

// ParseAlphabet converts a configuration name ("ascii" or "unicode") into
// an Alphabet. The empty string selects AlphabetASCII.
func ParseAlphabet(name string) (Alphabet, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ascii":
		return AlphabetASCII, nil
	case "unicode":
		return AlphabetUnicode, nil
	default:
		return AlphabetASCII, fmt.Errorf("%w: %q (expected ascii or unicode)", ErrUnknownAlphabet, name)
	}
}

// IsWord reports whether token contains at least one alphabetic character.
// Tokens made only of digits, symbols or punctuation are rejected.
// IsWord is a pure, total function.
func (a Alphabet) IsWord(token string) bool {
	for _, r := range token {
		if a.isLetter(r) {
			return true
		}
	}
	return false
}

// isLetter classifies a single rune under the alphabet's policy.
func (a Alphabet) isLetter(r rune) bool {
	if a == AlphabetUnicode {
		return unicode.IsLetter(r)
	}
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}
