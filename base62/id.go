package base62

import (
	"github.com/cockroachdb/errors"
)

// ID is a 64-bit identifier whose text form is its base-62 encoding.
// Comparison and map keys use the integer value.
type ID uint64

// ParseID decodes a base-62 identifier.
func ParseID(s string) (ID, error) {
	n, err := Decode(s)
	if err != nil {
		return 0, errors.Wrapf(err, "parse id %q", s)
	}
	return ID(n), nil
}

// MustParseID is like ParseID but panics on error. Intended for constants
// and tests.
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the canonical base-62 form.
func (id ID) String() string {
	return Encode(uint64(id))
}

// Uint64 returns the underlying integer.
func (id ID) Uint64() uint64 {
	return uint64(id)
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	n, err := Decode(string(text))
	if err != nil {
		return err
	}
	*id = ID(n)
	return nil
}

// Uint adapts an unsigned integer of any width to a base-62 JSON string.
// Use it for fields whose in-memory type is narrower than ID:
//
//	type Row struct {
//		Shard base62.Uint[uint16] `json:"shard"`
//	}
type Uint[T Unsigned] struct {
	V T
}

// MarshalText implements encoding.TextMarshaler.
func (u Uint[T]) MarshalText() ([]byte, error) {
	return []byte(Encode(uint64(u.V))), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *Uint[T]) UnmarshalText(text []byte) error {
	v, err := DecodeAs[T](string(text))
	if err != nil {
		return err
	}
	u.V = v
	return nil
}

// String returns the base-62 form.
func (u Uint[T]) String() string {
	return Encode(uint64(u.V))
}
