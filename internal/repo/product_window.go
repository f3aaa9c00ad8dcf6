package repo

import (
	"math"

	"github.com/rogerio-castellano/product-services/internal/coerce"
)

// Window returns the [start, end) bounds of the requested page over n filtered products.
//
// The page starts at (page-1)*limit and spans parseInt(limit) items. Bounds are then
// clamped like a slice call: NaN is 0, fractions truncate, and negative values count
// back from n. end never precedes start.
func Window(n int, page, limit string) (start, end int) {
	from := (coerce.Number(page) - 1) * coerce.Number(limit)
	to := from + coerce.Int(limit)

	start = relativeIndex(from, n)
	end = relativeIndex(to, n)
	if end < start {
		end = start
	}
	return start, end
}

func relativeIndex(x float64, n int) int {
	if math.IsNaN(x) {
		return 0
	}
	x = math.Trunc(x)
	if x < 0 {
		x += float64(n)
		if x < 0 {
			return 0
		}
		return int(x)
	}
	if x > float64(n) {
		return n
	}
	return int(x)
}
