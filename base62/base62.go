// Package base62 implements the dense base-62 integer encoding used for
// Modrinth identifiers.
//
// The alphabet is [0-9A-Za-z]. Values are encoded most significant digit
// first and zero encodes as "0". Decoding works at a canonical 64-bit width;
// narrower integer types are produced with DecodeAs, which fails with
// ErrArithmeticOverflow instead of truncating.
package base62

import (
	"fmt"
	"math/bits"

	"github.com/cockroachdb/errors"
)

const (
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	base     = uint64(len(alphabet))

	// maxLen is the length of the longest encoding of a uint64.
	maxLen = 11
)

const invalid = 0xff

var decodeTable = func() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = invalid
	}
	for i := 0; i < len(alphabet); i++ {
		t[alphabet[i]] = byte(i)
	}
	return t
}()

var (
	// ErrInvalidCharacter matches any *InvalidCharacterError.
	ErrInvalidCharacter = errors.New("base62: invalid character")
	// ErrArithmeticOverflow is returned when a decoded value does not fit the
	// target integer width.
	ErrArithmeticOverflow = errors.New("base62: arithmetic overflow")
	// ErrEmptyInput is returned when decoding an empty string.
	ErrEmptyInput = errors.New("base62: empty input")
)

// InvalidCharacterError reports a byte outside the base-62 alphabet.
type InvalidCharacterError struct {
	Char  byte
	Index int
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("base62: invalid character %q at index %d", e.Char, e.Index)
}

// Is lets errors.Is match ErrInvalidCharacter.
func (e *InvalidCharacterError) Is(target error) bool {
	return target == ErrInvalidCharacter
}

// Unsigned is the set of integer types DecodeAs can narrow into.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Encode returns the canonical base-62 form of n.
func Encode(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [maxLen]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = alphabet[n%base]
		n /= base
	}
	return string(buf[i:])
}

// Decode parses s as a base-62 number.
func Decode(s string) (uint64, error) {
	if s == "" {
		return 0, ErrEmptyInput
	}
	var n uint64
	for i := 0; i < len(s); i++ {
		d := decodeTable[s[i]]
		if d == invalid {
			return 0, &InvalidCharacterError{Char: s[i], Index: i}
		}
		hi, lo := bits.Mul64(n, base)
		if hi != 0 {
			return 0, errors.WithStack(ErrArithmeticOverflow)
		}
		var carry uint64
		n, carry = bits.Add64(lo, uint64(d), 0)
		if carry != 0 {
			return 0, errors.WithStack(ErrArithmeticOverflow)
		}
	}
	return n, nil
}

// DecodeAs decodes s and narrows the result into T.
func DecodeAs[T Unsigned](s string) (T, error) {
	n, err := Decode(s)
	if err != nil {
		return 0, err
	}
	v := T(n)
	if uint64(v) != n {
		return 0, errors.Wrapf(ErrArithmeticOverflow, "value %d does not fit %T", n, v)
	}
	return v, nil
}
