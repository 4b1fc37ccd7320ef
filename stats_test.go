package main

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDescribe(t *testing.T) {
	table := Table{
		Columns: []string{"original_passage", "em_score", "span_count"},
		Rows: [][]string{
			{"p1", "0.0", "0"},
			{"p2", "0.5", "1"},
			{"p3", "1.0", "2"},
			{"p4", "1.0", "3"},
		},
	}

	stats := Describe(table)

	if len(stats) != 2 {
		t.Fatalf("numeric columns = %d, want 2 (passage is text)", len(stats))
	}

	em := stats[0]
	if em.Name != "em_score" {
		t.Fatalf("first stat = %q, want em_score", em.Name)
	}
	if em.Count != 4 {
		t.Errorf("Count = %d, want 4", em.Count)
	}
	if !almostEqual(em.Mean, 0.625) {
		t.Errorf("Mean = %v, want 0.625", em.Mean)
	}
	// Sample standard deviation of {0, 0.5, 1, 1}.
	if !almostEqual(em.Std, 0.4787135538781691) {
		t.Errorf("Std = %v, want 0.47871...", em.Std)
	}
	if em.Min != 0 || em.Max != 1 {
		t.Errorf("Min/Max = %v/%v, want 0/1", em.Min, em.Max)
	}
	// Linear interpolation quartiles of {0, 0.5, 1, 1}.
	if !almostEqual(em.Q25, 0.375) {
		t.Errorf("Q25 = %v, want 0.375", em.Q25)
	}
	if !almostEqual(em.Q50, 0.75) {
		t.Errorf("Q50 = %v, want 0.75", em.Q50)
	}
	if !almostEqual(em.Q75, 1.0) {
		t.Errorf("Q75 = %v, want 1.0", em.Q75)
	}

	span := stats[1]
	if span.Name != "span_count" {
		t.Fatalf("second stat = %q, want span_count", span.Name)
	}
	if !almostEqual(span.Mean, 1.5) || !almostEqual(span.Q50, 1.5) {
		t.Errorf("span_count mean/median = %v/%v, want 1.5/1.5", span.Mean, span.Q50)
	}
}

func TestDescribeSkipsMixedColumns(t *testing.T) {
	table := Table{
		Columns: []string{"mixed"},
		Rows:    [][]string{{"1.0"}, {"two"}},
	}
	if stats := Describe(table); len(stats) != 0 {
		t.Errorf("mixed column treated as numeric: %+v", stats)
	}
}

func TestDescribeIgnoresMissingCells(t *testing.T) {
	table := Table{
		Columns: []string{"v"},
		Rows:    [][]string{{"1.0"}, {missingCell}, {"3.0"}},
	}
	stats := Describe(table)
	if len(stats) != 1 {
		t.Fatalf("stats = %d, want 1", len(stats))
	}
	if stats[0].Count != 2 {
		t.Errorf("Count = %d, want 2 (missing cell excluded)", stats[0].Count)
	}
	if !almostEqual(stats[0].Mean, 2.0) {
		t.Errorf("Mean = %v, want 2.0", stats[0].Mean)
	}
}

func TestDescribeSingleValue(t *testing.T) {
	table := Table{Columns: []string{"v"}, Rows: [][]string{{"4.0"}}}
	stats := Describe(table)
	if len(stats) != 1 {
		t.Fatalf("stats = %d, want 1", len(stats))
	}
	s := stats[0]
	if s.Std != 0 {
		t.Errorf("Std of single value = %v, want 0", s.Std)
	}
	if s.Min != 4 || s.Q25 != 4 || s.Q50 != 4 || s.Q75 != 4 || s.Max != 4 {
		t.Errorf("single-value quartiles = %+v, want all 4", s)
	}
}

func TestQuantileInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	tests := []struct {
		q    float64
		want float64
	}{
		{0, 1},
		{0.25, 1.75},
		{0.5, 2.5},
		{0.75, 3.25},
		{1, 4},
	}
	for _, tt := range tests {
		if got := quantile(sorted, tt.q); !almostEqual(got, tt.want) {
			t.Errorf("quantile(%v) = %v, want %v", tt.q, got, tt.want)
		}
	}
}
