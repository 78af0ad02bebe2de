// Package analytics computes footprint statistics over an in-memory set of
// activities. Every function is pure; callers fetch the records.
package analytics

import (
	"cmp"
	"slices"
	"time"

	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/model"
)

// Monthly benchmarks in kg CO2 for an average person.
const (
	BenchmarkTravel = 250.0
	BenchmarkFood   = 200.0
	BenchmarkEnergy = 300.0
	BenchmarkTotal  = 750.0
)

// CategoryTotal is the benchmark key used for the overall footprint.
const CategoryTotal = "total"

const DefaultTopN = 5

var categoryBenchmarks = map[string]float64{
	model.CategoryTravel: BenchmarkTravel,
	model.CategoryFood:   BenchmarkFood,
	model.CategoryEnergy: BenchmarkEnergy,
}

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthBucket holds the emissions of one calendar month.
type MonthBucket struct {
	Month int     `json:"month"`
	Name  string  `json:"name"`
	CO2   float64 `json:"co2"`
	Count int     `json:"count"`
}

// Performance compares a value against its benchmark.
type Performance struct {
	Category   string  `json:"category"`
	Value      float64 `json:"value"`
	Benchmark  float64 `json:"benchmark"`
	Percentage float64 `json:"percentage"`
	Band       Band    `json:"band"`
}

// Stats is the result of Aggregate.
type Stats struct {
	Year                 int
	Count                int
	TotalCO2             float64
	ByCategory           map[string]float64
	Monthly              [12]MonthBucket
	MonthlyAverage       float64
	BestMonth            *MonthBucket
	WorstMonth           *MonthBucket
	TopActivities        []*model.Activity
	Performance          []Performance
	ThisMonthCO2         float64
	LastMonthCO2         float64
	MonthOverMonthChange float64
}

// Options parameterizes Aggregate. A zero Year means the year of Now, a zero Now
// means the current time and a non-positive TopN means DefaultTopN.
type Options struct {
	Year int
	Now  time.Time
	TopN int
}

// Aggregate reduces records into Stats. Months are bucketed in UTC.
func Aggregate(records []*model.Activity, opts Options) Stats {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	year := opts.Year
	if year == 0 {
		year = now.Year()
	}

	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	stats := Stats{
		Year:       year,
		Count:      len(records),
		ByCategory: make(map[string]float64, len(model.KnownCategories)),
		Monthly:    MonthlyBuckets(records, year),
	}

	for _, category := range model.KnownCategories {
		stats.ByCategory[category] = 0
	}

	for _, record := range records {
		stats.TotalCO2 += record.CarbonCO2
		stats.ByCategory[record.Type] += record.CarbonCO2
	}

	var yearCO2 float64
	for _, bucket := range stats.Monthly {
		yearCO2 += bucket.CO2
	}
	stats.MonthlyAverage = yearCO2 / 12

	stats.BestMonth, stats.WorstMonth = Extremes(stats.Monthly)
	stats.TopActivities = TopN(records, topN)

	for _, category := range model.KnownCategories {
		stats.Performance = append(stats.Performance,
			Compare(category, stats.ByCategory[category], categoryBenchmarks[category]))
	}
	stats.Performance = append(stats.Performance, Compare(CategoryTotal, stats.TotalCO2, BenchmarkTotal))

	stats.ThisMonthCO2, stats.LastMonthCO2 = currentAndPreviousMonth(records, now)
	stats.MonthOverMonthChange = MonthOverMonthChange(stats.ThisMonthCO2, stats.LastMonthCO2)

	return stats
}

// MonthlyBuckets sums emissions and counts records per month of year.
func MonthlyBuckets(records []*model.Activity, year int) [12]MonthBucket {
	var buckets [12]MonthBucket
	for i := range buckets {
		buckets[i] = MonthBucket{Month: i + 1, Name: monthNames[i]}
	}

	for _, record := range records {
		date := record.Date.UTC()
		if date.Year() != year {
			continue
		}
		bucket := &buckets[date.Month()-1]
		bucket.CO2 += record.CarbonCO2
		bucket.Count++
	}

	return buckets
}

// Extremes returns the months with the lowest and highest non-zero emissions.
// Ties go to the earlier month. Both are nil when every month is zero.
func Extremes(buckets [12]MonthBucket) (best, worst *MonthBucket) {
	for i := range buckets {
		bucket := buckets[i]
		if bucket.CO2 <= 0 {
			continue
		}
		if best == nil || bucket.CO2 < best.CO2 {
			best = &bucket
		}
		if worst == nil || bucket.CO2 > worst.CO2 {
			worst = &bucket
		}
	}

	return best, worst
}

// TopN returns the n records with the largest emissions in descending order.
// Records with equal emissions keep their input order.
func TopN(records []*model.Activity, n int) []*model.Activity {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b *model.Activity) int {
		return cmp.Compare(b.CarbonCO2, a.CarbonCO2)
	})

	if n < len(sorted) {
		sorted = sorted[:max(n, 0)]
	}

	return sorted
}

// MonthOverMonthChange is the percentage change from last to this. It is 0
// when last is 0.
func MonthOverMonthChange(this, last float64) float64 {
	if last == 0 {
		return 0
	}
	return (this - last) / last * 100
}

func currentAndPreviousMonth(records []*model.Activity, now time.Time) (this, last float64) {
	thisStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastStart := thisStart.AddDate(0, -1, 0)
	nextStart := thisStart.AddDate(0, 1, 0)

	for _, record := range records {
		date := record.Date.UTC()
		switch {
		case !date.Before(thisStart) && date.Before(nextStart):
			this += record.CarbonCO2
		case !date.Before(lastStart) && date.Before(thisStart):
			last += record.CarbonCO2
		}
	}

	return this, last
}
