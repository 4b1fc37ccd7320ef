package main

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// ColumnStats holds the descriptive summary of one numeric column. Quartiles
// use linear interpolation between order statistics; Std is the sample
// standard deviation (n-1 denominator).
type ColumnStats struct {
	Name  string
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// Describe summarizes every numeric column of the table. A column counts as
// numeric when all of its non-empty cells parse as floats; empty cells are
// treated as missing and excluded from the statistics.
func Describe(t Table) []ColumnStats {
	var out []ColumnStats
	for i, name := range t.Columns {
		values, ok := numericColumn(t, i)
		if !ok || len(values) == 0 {
			continue
		}
		out = append(out, summarize(name, values))
	}
	return out
}

func numericColumn(t Table, idx int) ([]float64, bool) {
	var values []float64
	for _, row := range t.Rows {
		cell := strings.TrimSpace(row[idx])
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}

func summarize(name string, values []float64) ColumnStats {
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)

	n := len(sorted)
	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	std := 0.0
	if n > 1 {
		ss := 0.0
		for _, v := range sorted {
			d := v - mean
			ss += d * d
		}
		std = math.Sqrt(ss / float64(n-1))
	}

	return ColumnStats{
		Name:  name,
		Count: n,
		Mean:  mean,
		Std:   std,
		Min:   sorted[0],
		Q25:   quantile(sorted, 0.25),
		Q50:   quantile(sorted, 0.50),
		Q75:   quantile(sorted, 0.75),
		Max:   sorted[n-1],
	}
}

// quantile interpolates linearly over sorted values, q in [0, 1].
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
