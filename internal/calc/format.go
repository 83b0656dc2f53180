package calc

import (
	"math"
	"strconv"
)

// significantDigits bounds displayed precision so repeated float arithmetic
// does not surface noise such as 0.30000000000000004.
const significantDigits = 12

// Format rounds x to 12 significant digits and renders the shortest plain
// decimal string for the rounded value. Non-finite values render as "0".
func Format(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return initialDisplay
	}
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(x, 'g', significantDigits, 64), 64)
	if err != nil || math.IsInf(rounded, 0) {
		return initialDisplay
	}
	if rounded == 0 {
		return initialDisplay
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
