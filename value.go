package prefstore

import (
	"time"
)

// Kind identifies the type of a Value.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindTime
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	case KindBytes:
		return "bytes"
	}
	return "invalid"
}

// Value is one typed scalar held by a Store. The supported kinds are the
// ones the backing file can round-trip without losing the type.
// The zero Value is invalid; SetValue treats it as "remove the key".
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
	t    time.Time
	d    []byte
}

func StringValue(s string) Value {
	return Value{kind: KindString, s: s}
}

func IntValue(i int64) Value {
	return Value{kind: KindInt, i: i}
}

func FloatValue(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// TimeValue stores t normalized to UTC so that the on-disk representation
// doesn't depend on the local timezone.
func TimeValue(t time.Time) Value {
	return Value{kind: KindTime, t: t.UTC()}
}

// BytesValue copies d so later mutations of the caller's slice don't
// leak into the store.
func BytesValue(d []byte) Value {
	cp := append([]byte{}, d...)
	return Value{kind: KindBytes, d: cp}
}

func (v Value) Kind() Kind {
	return v.kind
}

// IsZero reports whether v is the invalid zero Value.
func (v Value) IsZero() bool {
	return v.kind == KindInvalid
}

// String returns the string held by v, or false if v is not a string.
func (v Value) String() (string, bool) {
	return v.s, v.kind == KindString
}

func (v Value) Int() (int64, bool) {
	return v.i, v.kind == KindInt
}

func (v Value) Float() (float64, bool) {
	return v.f, v.kind == KindFloat
}

func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) Time() (time.Time, bool) {
	return v.t, v.kind == KindTime
}

// Bytes returns a copy of the blob held by v, or false if v is not bytes.
func (v Value) Bytes() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	return append([]byte{}, v.d...), true
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == other.s
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindBool:
		return v.b == other.b
	case KindTime:
		return v.t.Equal(other.t)
	case KindBytes:
		return string(v.d) == string(other.d)
	}
	return true
}
