// Package domain contains pure, dependency-free domain models and types
// for the length validator.
package domain

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// Shape identifies which concrete form a Value takes.
type Shape string

// Supported value shapes.
const (
	// ShapeText is a character string measured in Unicode code points.
	ShapeText Shape = "text"

	// ShapeList is an ordered sequence of strings measured in elements.
	ShapeList Shape = "list"
)

// Placeholder units used when an empty value must be padded and there is
// no last unit to repeat.
const (
	// TextPlaceholder is repeated to pad an empty Text.
	TextPlaceholder = 'a'

	// ListPlaceholder is repeated to pad an empty List.
	ListPlaceholder = ""
)

// Value is a candidate field value under validation. Exactly two
// implementations exist: Text and List. Both are immutable from the
// validator's point of view; Pad and Truncate always allocate.
type Value interface {
	// Shape reports which concrete form this value takes.
	Shape() Shape

	// Len returns the value's length: code points for Text, elements
	// for List.
	Len() int

	// Pad returns a new value of exactly n units built by repeating the
	// last unit. n must not be smaller than Len.
	Pad(n int) Value

	// Truncate returns a new value holding the first n units.
	// n must not be larger than Len.
	Truncate(n int) Value

	// Raw returns the underlying Go value (string or []string).
	Raw() any
}

var (
	_ Value = Text("")
	_ Value = List(nil)
)

// Text is a character string value.
type Text string

// Shape implements Value.
func (Text) Shape() Shape { return ShapeText }

// Len returns the number of code points in t.
func (t Text) Len() int { return utf8.RuneCountInString(string(t)) }

// Pad appends the last character of t until the result holds n characters.
// An empty t is filled with TextPlaceholder. When t ends in a byte that is
// not valid UTF-8, utf8.RuneError (U+FFFD) is repeated instead: appending
// the raw byte could complete a multi-byte sequence and change the length.
func (t Text) Pad(n int) Value {
	missing := n - t.Len()
	if missing <= 0 {
		return t
	}

	fill := rune(TextPlaceholder)
	if last, size := utf8.DecodeLastRuneInString(string(t)); size > 0 {
		fill = last
	}

	var b strings.Builder
	b.Grow(len(t) + missing*utf8.RuneLen(fill))
	b.WriteString(string(t))
	for range missing {
		b.WriteRune(fill)
	}
	return Text(b.String())
}

// Truncate keeps the first n characters of t.
func (t Text) Truncate(n int) Value {
	if n <= 0 {
		return Text("")
	}
	count := 0
	for i := range string(t) {
		if count == n {
			return Text(string(t)[:i])
		}
		count++
	}
	return t
}

// Raw returns t as a plain string.
func (t Text) Raw() any { return string(t) }

// String implements fmt.Stringer.
func (t Text) String() string { return string(t) }

// List is an ordered sequence of strings.
type List []string

// Shape implements Value.
func (List) Shape() Shape { return ShapeList }

// Len returns the number of elements in l.
func (l List) Len() int { return len(l) }

// Pad appends copies of the last element of l until the result holds n
// elements. An empty l is filled with ListPlaceholder.
func (l List) Pad(n int) Value {
	out := make(List, len(l), max(n, len(l)))
	copy(out, l)

	fill := ListPlaceholder
	if len(l) > 0 {
		fill = l[len(l)-1]
	}
	for len(out) < n {
		out = append(out, fill)
	}
	return out
}

// Truncate keeps the first n elements of l in a new slice.
func (l List) Truncate(n int) Value {
	n = min(max(n, 0), len(l))
	return slices.Clone(l[:n:n])
}

// Raw returns l as a plain []string.
func (l List) Raw() any { return []string(l) }

// AsValue converts a host-provided Go value into a Value. Accepted inputs
// are string, []string, []any whose elements are all strings, and values
// already implementing Value. Anything else returns ErrUnsupportedShape.
func AsValue(v any) (Value, error) {
	switch val := v.(type) {
	case Value:
		return val, nil
	case string:
		return Text(val), nil
	case []string:
		return List(slices.Clone(val)), nil
	case []any:
		out := make(List, len(val))
		for i, elem := range val {
			s, ok := elem.(string)
			if !ok {
				return nil, fmt.Errorf("%w: element %d is %T, want string", ErrUnsupportedShape, i, elem)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedShape, v)
	}
}
