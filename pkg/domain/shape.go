package domain

import (
	"fmt"
	"reflect"
	"strings"
)

// Shape is the closed set of payload shapes an actor can declare.
type Shape int

const (
	// ShapeAny is the wildcard: it matches every payload.
	ShapeAny Shape = iota
	ShapeString
	ShapeInt
	ShapeFloat
	ShapeBool
	ShapeBytes
	ShapeArray
	ShapeMap
	ShapeRows
	ShapeObject
)

var shapeNames = map[Shape]string{
	ShapeAny:    "any",
	ShapeString: "string",
	ShapeInt:    "int",
	ShapeFloat:  "float",
	ShapeBool:   "bool",
	ShapeBytes:  "bytes",
	ShapeArray:  "array",
	ShapeMap:    "map",
	ShapeRows:   "rows",
	ShapeObject: "object",
}

func (s Shape) String() string {
	if n, ok := shapeNames[s]; ok {
		return n
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// ParseShape converts a shape name back into a Shape.
func ParseShape(name string) (Shape, error) {
	for s, n := range shapeNames {
		if n == strings.ToLower(strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return ShapeAny, fmt.Errorf("unknown shape %q", name)
}

// ShapeOf classifies a payload. Unknown types are reported as ShapeObject.
func ShapeOf(v any) Shape {
	switch v.(type) {
	case nil:
		return ShapeAny
	case string:
		return ShapeString
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return ShapeInt
	case float32, float64:
		return ShapeFloat
	case bool:
		return ShapeBool
	case []byte:
		return ShapeBytes
	case []map[string]any:
		return ShapeRows
	case map[string]any:
		return ShapeMap
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return ShapeArray
	case reflect.Map:
		return ShapeMap
	default:
		return ShapeObject
	}
}

// Matches reports whether a payload of shape other satisfies s.
// Rows are a specialisation of arrays.
func (s Shape) Matches(other Shape) bool {
	if s == ShapeAny || other == ShapeAny || s == other {
		return true
	}
	return s == ShapeArray && other == ShapeRows
}

// Shapes is the set of shapes an actor accepts or generates.
// An empty set behaves like the wildcard.
type Shapes []Shape

// Any returns the wildcard shape set.
func Any() Shapes {
	return Shapes{ShapeAny}
}

// Of builds a shape set.
func Of(shapes ...Shape) Shapes {
	return Shapes(shapes)
}

// IsAny reports whether the set contains the wildcard (or is empty).
func (ss Shapes) IsAny() bool {
	if len(ss) == 0 {
		return true
	}
	for _, s := range ss {
		if s == ShapeAny {
			return true
		}
	}
	return false
}

// Accepts reports whether the payload matches at least one shape of the set.
func (ss Shapes) Accepts(payload any) bool {
	if ss.IsAny() {
		return true
	}
	actual := ShapeOf(payload)
	for _, s := range ss {
		if s.Matches(actual) {
			return true
		}
	}
	return false
}

// CompatibleWith reports whether something generating ss can feed something accepting accepts.
func (ss Shapes) CompatibleWith(accepts Shapes) bool {
	if ss.IsAny() || accepts.IsAny() {
		return true
	}
	for _, g := range ss {
		for _, a := range accepts {
			if a.Matches(g) {
				return true
			}
		}
	}
	return false
}

func (ss Shapes) String() string {
	if len(ss) == 0 {
		return ShapeAny.String()
	}
	names := make([]string, len(ss))
	for i, s := range ss {
		names[i] = s.String()
	}
	return strings.Join(names, "|")
}
