package script

import (
	"fmt"
	"math"
	"strconv"
)

// Value is a script value: nil (none), bool, float64, string or *Match
type Value = any

// Match is a located on-screen target
type Match struct {
	X, Y  int
	Score float64
}

func (m *Match) String() string {
	return fmt.Sprintf("(%d, %d)", m.X, m.Y)
}

// Truthy reports whether v counts as true in a condition
func Truthy(v Value) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	case *Match:
		return v != nil
	default:
		return true
	}
}

// FormatValue renders v the way print shows it
func FormatValue(v Value) string {
	switch v := v.(type) {
	case nil:
		return "none"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	case *Match:
		if v == nil {
			return "none"
		}
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func typeName(v Value) string {
	switch v := v.(type) {
	case nil:
		return "none"
	case bool:
		return "bool"
	case float64:
		return "number"
	case string:
		return "string"
	case *Match:
		if v == nil {
			return "none"
		}
		return "match"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func isNone(v Value) bool {
	if v == nil {
		return true
	}
	m, ok := v.(*Match)
	return ok && m == nil
}

func valuesEqual(a, b Value) bool {
	if isNone(a) || isNone(b) {
		return isNone(a) && isNone(b)
	}
	switch a := a.(type) {
	case bool:
		b, ok := b.(bool)
		return ok && a == b
	case float64:
		b, ok := b.(float64)
		return ok && a == b
	case string:
		b, ok := b.(string)
		return ok && a == b
	case *Match:
		b, ok := b.(*Match)
		return ok && *a == *b
	}
	return false
}
