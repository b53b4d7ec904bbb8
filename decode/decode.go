// Package decode unmarshals JSON into typed values and, when that fails,
// reports the exact location in the document that could not be decoded.
//
// Decoding itself is a single pass with goccy/go-json. Only on failure does
// the package walk the document alongside the target type, trial-decoding
// each member until it isolates the innermost value that is responsible.
// The walk follows struct fields in declaration order, array elements in
// index order and map keys in sorted order, so the reported path is
// deterministic.
package decode

import (
	"bytes"
	"encoding"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
)

// Segment is one step of a Path: an object key or an array index.
type Segment struct {
	Key   string
	Index int
	// IsIndex reports whether the segment is an array index.
	IsIndex bool
}

// Path locates a value inside a JSON document.
type Path []Segment

// String renders the path as `hits[3].status`. The document root is ".".
func (p Path) String() string {
	if len(p) == 0 {
		return "."
	}
	var b strings.Builder
	for i, seg := range p {
		if seg.IsIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.Key)
	}
	return b.String()
}

func (p Path) key(k string) Path {
	return append(p[:len(p):len(p)], Segment{Key: k})
}

func (p Path) index(i int) Path {
	return append(p[:len(p):len(p)], Segment{Index: i, IsIndex: true})
}

// ErrUnknownField is the cause reported for an object member that has no
// matching struct field when unknown fields are disallowed.
var ErrUnknownField = errors.New("unknown field")

// ErrTrailingData is the cause reported when the document holds more than
// one JSON value.
var ErrTrailingData = errors.New("trailing data after JSON value")

// Error is a decode failure at a specific Path.
type Error struct {
	Path Path
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type options struct {
	disallowUnknownFields bool
}

// Option configures Unmarshal.
type Option func(*options)

// DisallowUnknownFields rejects object members that do not map to a struct
// field of the target type.
func DisallowUnknownFields() Option {
	return func(o *options) {
		o.disallowUnknownFields = true
	}
}

// Unmarshal decodes data into v, which must be a non-nil pointer. Any
// failure is returned as *Error.
func Unmarshal(data []byte, v any, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &Error{Err: errors.Newf("non-nil pointer required, got %T", v)}
	}

	dec := o.decoder(data)
	err := dec.Decode(v)
	if err == nil {
		if err := exhausted(dec); err != nil {
			return &Error{Err: err}
		}
		return nil
	}

	path, cause := o.locate(data, rv.Type().Elem(), nil, err)
	return &Error{Path: path, Err: cause}
}

func (o options) decoder(data []byte) *json.Decoder {
	dec := json.NewDecoder(bytes.NewReader(data))
	if o.disallowUnknownFields {
		dec.DisallowUnknownFields()
	}
	return dec
}

func (o options) unmarshal(data []byte, v any) error {
	return o.decoder(data).Decode(v)
}

// exhausted fails unless only whitespace follows the first value.
func exhausted(dec *json.Decoder) error {
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return ErrTrailingData
	}
	return nil
}

// try reports whether raw decodes into a fresh value of typ.
func (o options) try(raw []byte, typ reflect.Type) error {
	return o.unmarshal(raw, reflect.New(typ).Interface())
}

var (
	jsonUnmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// opaque reports whether typ decodes itself, in which case its contents
// cannot be narrowed further.
func opaque(typ reflect.Type) bool {
	ptr := reflect.PointerTo(typ)
	return ptr.Implements(jsonUnmarshalerType) || ptr.Implements(textUnmarshalerType)
}

// locate narrows cause down to the innermost value of raw that fails to
// decode as typ.
func (o options) locate(raw []byte, typ reflect.Type, path Path, cause error) (Path, error) {
	for typ.Kind() == reflect.Pointer && !opaque(typ) {
		typ = typ.Elem()
	}
	if opaque(typ) || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return path, cause
	}

	switch typ.Kind() {
	case reflect.Struct:
		return o.locateStruct(raw, typ, path, cause)
	case reflect.Slice, reflect.Array:
		if typ.Kind() == reflect.Slice && typ.Elem().Kind() == reflect.Uint8 {
			return path, cause
		}
		return o.locateArray(raw, typ.Elem(), path, cause)
	case reflect.Map:
		return o.locateMap(raw, typ.Elem(), path, cause)
	}
	return path, cause
}

func (o options) locateStruct(raw []byte, typ reflect.Type, path Path, cause error) (Path, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return path, cause
	}

	matched := make(map[string]bool, len(members))
	for _, f := range fieldsOf(typ) {
		key, value, ok := lookup(members, f.name)
		if !ok {
			continue
		}
		matched[key] = true
		if err := o.try(value, f.typ); err != nil {
			return o.locate(value, f.typ, path.key(key), err)
		}
	}

	if o.disallowUnknownFields {
		for _, key := range sortedKeys(members) {
			if !matched[key] {
				return path.key(key), ErrUnknownField
			}
		}
	}
	return path, cause
}

func (o options) locateArray(raw []byte, elem reflect.Type, path Path, cause error) (Path, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return path, cause
	}
	for i, item := range items {
		if err := o.try(item, elem); err != nil {
			return o.locate(item, elem, path.index(i), err)
		}
	}
	return path, cause
}

func (o options) locateMap(raw []byte, elem reflect.Type, path Path, cause error) (Path, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return path, cause
	}
	for _, key := range sortedKeys(members) {
		if err := o.try(members[key], elem); err != nil {
			return o.locate(members[key], elem, path.key(key), err)
		}
	}
	return path, cause
}

// lookup finds name in members, preferring an exact match and falling back
// to a case-insensitive one like the decoder does.
func lookup(members map[string]json.RawMessage, name string) (string, json.RawMessage, bool) {
	if v, ok := members[name]; ok {
		return name, v, true
	}
	for _, key := range sortedKeys(members) {
		if strings.EqualFold(key, name) {
			return key, members[key], true
		}
	}
	return "", nil, false
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type field struct {
	name string
	typ  reflect.Type
}

// fieldsOf lists the JSON-visible fields of a struct type in declaration
// order, flattening untagged embedded structs.
func fieldsOf(typ reflect.Type) []field {
	var fields []field
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")

		if sf.Anonymous && name == "" {
			t := sf.Type
			if t.Kind() == reflect.Pointer {
				t = t.Elem()
			}
			if t.Kind() == reflect.Struct {
				fields = append(fields, fieldsOf(t)...)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		fields = append(fields, field{name: name, typ: sf.Type})
	}
	return fields
}
