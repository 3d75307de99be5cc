// Package calc holds the pure arithmetic used by addsvc.
package calc

// Add returns a + b with IEEE-754 semantics: NaN propagates and infinities
// follow the usual rules.
func Add(a, b float64) float64 {
	return a + b
}
