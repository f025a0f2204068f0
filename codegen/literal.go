package codegen

import (
	"math"
	"strconv"
	"strings"
)

// FormatDouble returns the shortest C++ double literal that parses
// back to v.
func FormatDouble(v float64) string {
	return realLiteral(strconv.FormatFloat(v, 'g', -1, 64))
}

/*
FormatThreshold returns a C++ float literal for a split threshold.

Features reach the generated code as floats, so the literal is the
largest float32 lower or equal to the threshold: for any float32 x,
x <= literal holds exactly when x <= threshold does. It is printed
with the shortest representation that parses back to that float32.
*/
func FormatThreshold(threshold float64) string {
	t := ThresholdFloat32(threshold)
	if math.IsInf(float64(t), -1) {
		return "(-__builtin_huge_valf())"
	}
	return realLiteral(strconv.FormatFloat(float64(t), 'g', -1, 32)) + "f"
}

// ThresholdFloat32 returns the largest float32 lower or equal to
// the given threshold.
func ThresholdFloat32(threshold float64) float32 {
	t := float32(threshold)
	if float64(t) > threshold {
		t = math.Nextafter32(t, float32(math.Inf(-1)))
	}
	return t
}

// realLiteral makes integral-looking numbers read as reals in C++.
func realLiteral(s string) string {
	if strings.ContainsAny(s, ".eE") {
		return s
	}
	return s + ".0"
}
