// Package tristate contains the value domain for configuration symbols.
// This is part of the Functional Core - no I/O, only pure functions.
package tristate

import "fmt"

// Value is a tristate configuration value. The domain is totally ordered
// No < Mod < Yes; boolean symbols restrict it to {No, Yes}.
type Value int8

const (
	No Value = iota
	Mod
	Yes
)

// String renders the value in the persisted-snapshot spelling.
func (v Value) String() string {
	switch v {
	case No:
		return "n"
	case Mod:
		return "m"
	case Yes:
		return "y"
	}
	return fmt.Sprintf("tristate(%d)", int8(v))
}

// Parse converts a snapshot spelling ("n", "m", "y") into a Value.
func Parse(s string) (Value, error) {
	switch s {
	case "n":
		return No, nil
	case "m":
		return Mod, nil
	case "y":
		return Yes, nil
	}
	return No, fmt.Errorf("invalid tristate value %q", s)
}

// Min returns the smaller of two values.
func Min(a, b Value) Value {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two values.
func Max(a, b Value) Value {
	if a > b {
		return a
	}
	return b
}

// Clamp limits v to the inclusive range [lo, hi].
// Callers must ensure lo <= hi.
func Clamp(v, lo, hi Value) Value {
	return Max(lo, Min(v, hi))
}
