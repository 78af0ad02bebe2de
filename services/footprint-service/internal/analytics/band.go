package analytics

import "math"

// Band classifies a footprint relative to a benchmark.
type Band string

const (
	BandExcellent Band = "Excellent"
	BandGood      Band = "Good"
	BandAverage   Band = "Average"
	BandHigh      Band = "High"
	BandVeryHigh  Band = "Very High"
)

// Percentage returns value as a percentage of benchmark. A non-positive
// benchmark yields 0 for a zero value and +Inf otherwise.
func Percentage(value, benchmark float64) float64 {
	if benchmark <= 0 {
		if value == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return value / benchmark * 100
}

// PerformanceBand buckets value/benchmark. Upper bounds are inclusive.
func PerformanceBand(value, benchmark float64) Band {
	pct := Percentage(value, benchmark)
	switch {
	case pct <= 50:
		return BandExcellent
	case pct <= 75:
		return BandGood
	case pct <= 100:
		return BandAverage
	case pct <= 150:
		return BandHigh
	default:
		return BandVeryHigh
	}
}

// Compare builds the Performance of value in category against benchmark.
func Compare(category string, value, benchmark float64) Performance {
	return Performance{
		Category:   category,
		Value:      value,
		Benchmark:  benchmark,
		Percentage: Percentage(value, benchmark),
		Band:       PerformanceBand(value, benchmark),
	}
}
