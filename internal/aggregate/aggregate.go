package aggregate

import (
	"math"
	"slices"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

// Sum adds value over records. Accumulation is decimal so that long columns
// of cents do not drift.
func Sum[T any](records []T, value func(T) float64) float64 {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(toDecimal(value(r)))
	}
	return total.InexactFloat64()
}

// GroupSum totals value per key. Records with a blank key are skipped.
func GroupSum[T any](records []T, key func(T) string, value func(T) float64) Series {
	index := make(map[string]int)
	sums := make([]decimal.Decimal, 0)
	var series Series
	for _, r := range records {
		k := strings.TrimSpace(key(r))
		if k == "" {
			continue
		}
		i, ok := index[k]
		if !ok {
			i = len(series)
			index[k] = i
			series = append(series, Point{Label: k})
			sums = append(sums, decimal.Zero)
		}
		sums[i] = sums[i].Add(toDecimal(value(r)))
	}
	for i := range series {
		series[i].Value = sums[i].InexactFloat64()
	}
	return series
}

// GroupCount counts records per key. Records with a blank key are skipped.
func GroupCount[T any](records []T, key func(T) string) Series {
	return GroupSum(records, key, func(T) float64 { return 1 })
}

// Average is the mean of value over records, 0 for no records.
func Average[T any](records []T, value func(T) float64) float64 {
	m, err := stats.Mean(collect(records, value))
	if err != nil {
		return 0
	}
	return m
}

// Median is the median of value over records, 0 for no records.
func Median[T any](records []T, value func(T) float64) float64 {
	m, err := stats.Median(collect(records, value))
	if err != nil {
		return 0
	}
	return m
}

// Margin returns profit as a percentage of revenue, 0 when revenue is 0.
func Margin(profit, revenue float64) float64 {
	if revenue == 0 {
		return 0
	}
	return profit / revenue * 100
}

// CountMatching counts records satisfying pred.
func CountMatching[T any](records []T, pred func(T) bool) int {
	n := 0
	for _, r := range records {
		if pred(r) {
			n++
		}
	}
	return n
}

// Distinct returns the sorted distinct non-blank values of key.
func Distinct[T any](records []T, key func(T) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range records {
		k := strings.TrimSpace(key(r))
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// toDecimal treats NaN and infinities as 0; decimal cannot represent them.
func toDecimal(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

func collect[T any](records []T, value func(T) float64) stats.Float64Data {
	data := make(stats.Float64Data, len(records))
	for i, r := range records {
		data[i] = value(r)
	}
	return data
}
