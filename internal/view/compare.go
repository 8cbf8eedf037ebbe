package view

import (
	"cmp"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Compare orders two field values: numbers numerically, strings
// lexicographically, bools false before true, times chronologically.
// Values of different kinds fall back to comparing their text.
// nil sorts before everything else.
func Compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if fa, ok := number(va); ok {
		if fb, ok := number(vb); ok {
			return cmp.Compare(fa, fb)
		}
	}

	if va.Kind() == reflect.String && vb.Kind() == reflect.String {
		return strings.Compare(va.String(), vb.String())
	}

	if va.Kind() == reflect.Bool && vb.Kind() == reflect.Bool {
		return compareBool(va.Bool(), vb.Bool())
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func number(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	return 0, false
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}
