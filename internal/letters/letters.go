// internal/letters/letters.go
//
// Alphabet normalization for guess input and dictionary words.
// The word lists are French: accented letters (é, è, ç, ...) fold to
// their bare ASCII form so that keyboard input, stored state, and the
// target word all compare in plain a–z.

package letters

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidCharacter is returned for any input that does not fold to
// a plain lowercase letter.
var ErrInvalidCharacter = errors.New("letters: invalid character")

// Fold strips diacritical marks and lowercases.
// "École" → "ecole". Characters without a bare form pass through.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

// Normalize folds a whole word for storage/comparison and verifies the
// result is a–z only.
func Normalize(s string) (string, error) {
	w := Fold(s)
	for _, r := range w {
		if r < 'a' || r > 'z' {
			return "", ErrInvalidCharacter
		}
	}
	return w, nil
}

// NormalizeRune folds a single keystroke. Accented letters are
// accepted and folded; digits, punctuation, and multi-mark input are
// rejected with ErrInvalidCharacter.
func NormalizeRune(r rune) (rune, error) {
	if !unicode.IsLetter(r) {
		return 0, ErrInvalidCharacter
	}
	w := Fold(string(r))
	rs := []rune(w)
	if len(rs) != 1 || rs[0] < 'a' || rs[0] > 'z' {
		return 0, ErrInvalidCharacter
	}
	return rs[0], nil
}

// IsLower reports whether s is all lowercase ASCII letters.
func IsLower(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
