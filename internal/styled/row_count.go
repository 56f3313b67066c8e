package styled

import "fmt"

// RowCount returns a row count footer with thousands separators.
//
// Example:
//
//	1     -> "1 row"
//	12345 -> "12,345 rows"
func RowCount(n int) string {
	if n == 1 {
		return "1 row"
	}
	return withCommas(n) + " rows"
}

func withCommas(i int) string {
	if i < 0 {
		// -(i+1) stays in range for math.MinInt.
		return "-" + groupDigits(uint64(-(i+1))+1)
	}
	return groupDigits(uint64(i))
}

func groupDigits(u uint64) string {
	if u < 1000 {
		return fmt.Sprintf("%d", u)
	}
	return groupDigits(u/1000) + "," + fmt.Sprintf("%03d", u%1000)
}
