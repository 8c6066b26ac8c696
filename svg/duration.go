package svg

import "fmt"

// Duration formats nanoseconds for humans, e.g. "850ns", "1.25ms" or
// "2m3.50s". Fractions are truncated to two decimals, not rounded.
func Duration(nano uint64) string {
	switch {
	case nano < 1_000:
		return fmt.Sprintf("%dns", nano)
	case nano < 1_000_000:
		return fmt.Sprintf("%.2fus", fraction(nano, 1_000))
	case nano < 1_000_000_000:
		return fmt.Sprintf("%.2fms", fraction(nano, 1_000_000))
	case nano < 60_000_000_000:
		return fmt.Sprintf("%.2fs", fraction(nano, 1_000_000_000))
	default:
		return fmt.Sprintf("%dm%.2fs", nano/60_000_000_000, fraction(nano%60_000_000_000, 1_000_000_000))
	}
}

// fraction returns time/unit truncated to hundredths.
func fraction(time, unit uint64) float64 {
	return float64(time/unit) + float64((time%unit)*100/unit)/100
}
