package ir

import (
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface over the value types that may appear in
// canonical composition documents. Only Null, String, Int, Bool, Array and
// Object implement it. There is deliberately no float variant: every number
// in a composition is a semitone index or a count.
type Value interface {
	value()
}

// Null encodes a rest (or any absent pitch) as JSON null.
type Null struct{}

func (Null) value() {}

// String is a string value.
type String string

func (String) value() {}

// Int is an integer value. Always int64.
type Int int64

func (Int) value() {}

// Bool is a boolean value.
type Bool bool

func (Bool) value() {}

// Array is an ordered list of values.
type Array []Value

func (Array) value() {}

// Object maps string keys to values. Use SortedKeys for iteration.
type Object map[string]Value

func (Object) value() {}

// SortedKeys returns keys in RFC 8785 order (UTF-16 code units).
// Go's native string order compares UTF-8 bytes, which differs for
// supplementary-plane characters.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	n := min(len(a16), len(b16))
	for i := 0; i < n; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}

// PitchValue converts a pitch to its canonical value: Int, or Null for a rest.
func PitchValue(p Pitch) Value {
	if p.IsRest() {
		return Null{}
	}
	return Int(p)
}

// PitchArray converts a pitch sequence into a canonical Array.
func PitchArray(ps []Pitch) Array {
	arr := make(Array, len(ps))
	for i, p := range ps {
		arr[i] = PitchValue(p)
	}
	return arr
}
