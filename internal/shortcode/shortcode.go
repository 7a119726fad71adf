// Package shortcode generates randomized short codes and validates
// user-supplied custom codes. It holds no state; uniqueness is the caller's
// problem.
package shortcode

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// GeneratedLength is the fixed length of generated codes.
	GeneratedLength = 6

	// CustomMinLength and CustomMaxLength bound owner-chosen codes.
	CustomMinLength = 4
	CustomMaxLength = 5
)

// Custom-code validation failures, reported in fixed order:
// length, letter, digit, charset.
var (
	ErrInvalidLength     = errors.New("custom code must be 4 to 5 characters")
	ErrMissingLetter     = errors.New("custom code must contain a letter")
	ErrMissingDigit      = errors.New("custom code must contain a digit")
	ErrInvalidCharacters = errors.New("custom code must be alphanumeric")
)

// Generate returns a 6-character code drawn uniformly from the base62
// alphabet. crypto/rand keeps the draw unbiased across concurrent callers.
func Generate() string {
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, GeneratedLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// rand.Reader never fails on supported platforms
			panic(err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf)
}

// ValidateCustom checks an owner-chosen code. All rules are evaluated in a
// fixed order and the first violation wins: length, then letter, then digit,
// then charset.
func ValidateCustom(code string) error {
	if len(code) < CustomMinLength || len(code) > CustomMaxLength {
		return ErrInvalidLength
	}

	var hasLetter, hasDigit, hasOther bool
	for _, r := range code {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasOther = true
		}
	}

	if !hasLetter {
		return ErrMissingLetter
	}
	if !hasDigit {
		return ErrMissingDigit
	}
	if hasOther {
		return ErrInvalidCharacters
	}
	return nil
}
