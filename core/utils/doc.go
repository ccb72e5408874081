// Package utils contains loose-typed conversion helpers for the POS
// partner payload, which carries numbers and booleans as strings, plus
// the two-decimal price rounding used across the engine.
package utils
