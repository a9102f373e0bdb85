package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Type is the semantic type of a column.
type Type int

const (
	// String columns hold categorical labels.
	String Type = iota + 1
	// Numeric columns hold float64 values and may contain nulls.
	Numeric
)

// IsValid reports whether the type is supported.
func (t Type) IsValid() bool {
	return t == String || t == Numeric
}

func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case Numeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// ParseType maps a label such as "Numeric" or "string" to a Type.
func ParseType(label string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "string", "str", "text":
		return String, nil
	case "numeric", "number", "float":
		return Numeric, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidType, label)
	}
}

// Field is a named, typed column definition.
type Field struct {
	Name string
	Type Type
}

// Validate checks the field definition.
func (f Field) Validate() error {
	if strings.TrimSpace(f.Name) == "" || !f.Type.IsValid() {
		return fmt.Errorf("%w: %q (%s)", ErrInvalidField, f.Name, f.Type)
	}
	return nil
}

// Value is a single cell. The zero value is null.
type Value struct {
	kind Type
	num  float64
	str  string
}

// Num returns a numeric value.
func Num(v float64) Value { return Value{kind: Numeric, num: v} }

// Str returns a string value.
func Str(s string) Value { return Value{kind: String, str: s} }

// Null returns the null sentinel.
func Null() Value { return Value{} }

// IsNull reports whether the value is the null sentinel.
func (v Value) IsNull() bool { return v.kind == 0 }

// Type returns the value type, zero for null.
func (v Value) Type() Type { return v.kind }

// Float returns the numeric payload.
func (v Value) Float() (float64, bool) {
	if v.kind != Numeric {
		return 0, false
	}
	return v.num, true
}

// Text returns the string payload.
func (v Value) Text() (string, bool) {
	if v.kind != String {
		return "", false
	}
	return v.str, true
}

// Equal reports whether two values have the same type and payload.
// Null is never equal to anything, including null.
func (v Value) Equal(other Value) bool {
	if v.kind == 0 || v.kind != other.kind {
		return false
	}
	if v.kind == Numeric {
		return v.num == other.num
	}
	return v.str == other.str
}

func (v Value) String() string {
	switch v.kind {
	case Numeric:
		return FormatNumber(v.num)
	case String:
		return v.str
	default:
		return ""
	}
}

// FormatNumber renders a float without trailing zeros, e.g. 2020 or 15.5.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseNumber parses a numeric token leniently trimmed of whitespace.
func ParseNumber(token string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrCoercion, token)
	}
	return v, nil
}

// Compare orders two non-null values of the same type.
// Numeric values compare numerically, strings lexicographically.
func Compare(a, b Value) int {
	if a.kind == Numeric && b.kind == Numeric {
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		case math.IsNaN(a.num) && !math.IsNaN(b.num):
			return 1
		case !math.IsNaN(a.num) && math.IsNaN(b.num):
			return -1
		default:
			return 0
		}
	}
	return strings.Compare(a.String(), b.String())
}
