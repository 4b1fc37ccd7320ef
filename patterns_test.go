package main

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func patternTable(rows [][]string) Table {
	return Table{
		Columns: []string{"original_passage", "tagged_words", "em_score"},
		Rows:    rows,
	}
}

func TestParseTagList(t *testing.T) {
	tests := []struct {
		name    string
		cell    string
		want    []string
		wantErr bool
	}{
		{"json array", `["PER", "LOC"]`, []string{"PER", "LOC"}, false},
		{"python single quotes", `['PER', 'LOC']`, []string{"PER", "LOC"}, false},
		{"python mixed quotes", `['PER', "LOC"]`, []string{"PER", "LOC"}, false},
		{"single element", `['x']`, []string{"x"}, false},
		{"empty list", `[]`, nil, false},
		{"escaped quote", `['it\'s']`, []string{"it's"}, false},
		{"surrounding whitespace", `  ['a']  `, []string{"a"}, false},
		{"empty cell", ``, nil, true},
		{"not a list", `PER`, nil, true},
		{"numbers rejected", `[1, 2]`, nil, true},
		{"nested list rejected", `[['a']]`, nil, true},
		{"unterminated", `['a`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTagList(0, tt.cell)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTagList(%q) expected error, got %v", tt.cell, got)
				}
				var parseErr *TagParseError
				if !errors.As(err, &parseErr) {
					t.Errorf("error type = %T, want *TagParseError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTagList(%q) failed: %v", tt.cell, err)
			}
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseTagList(%q) = %v, want %v", tt.cell, got, tt.want)
			}
		})
	}
}

func TestAnalyzeTagPatternsCountsAndMeans(t *testing.T) {
	table := patternTable([][]string{
		{"p1", `['x']`, "1.0"},
		{"p2", `['x', 'y']`, "0.5"},
		{"p3", `['y']`, "0.0"},
	})

	result := AnalyzeTagPatterns(table, 2.0)

	if result.SkippedRows != 0 {
		t.Errorf("SkippedRows = %d, want 0", result.SkippedRows)
	}
	if len(result.Stats) != 2 {
		t.Fatalf("stats = %d, want 2", len(result.Stats))
	}

	byTag := make(map[string]TagStat)
	for _, s := range result.Stats {
		byTag[s.Tag] = s
	}
	x := byTag["x"]
	if x.TagCount != 2 || math.Abs(x.AverageEMScore-0.75) > 1e-9 {
		t.Errorf("x = %+v, want count 2 mean 0.75", x)
	}
	y := byTag["y"]
	if y.TagCount != 2 || math.Abs(y.AverageEMScore-0.25) > 1e-9 {
		t.Errorf("y = %+v, want count 2 mean 0.25", y)
	}
}

func TestAnalyzeTagPatternsSortOrder(t *testing.T) {
	// frequent: count 3, mean 0.1 → composite 6.1
	// strong:   count 1, mean 1.0 → composite 3.0
	table := patternTable([][]string{
		{"p", `['frequent']`, "0.1"},
		{"p", `['frequent']`, "0.1"},
		{"p", `['frequent', 'strong']`, "0.1"},
		{"p", `['strong']`, "1.9"},
	})

	result := AnalyzeTagPatterns(table, 2.0)
	if result.Stats[0].Tag != "frequent" {
		t.Errorf("first tag = %q, want frequent (weighted count dominates)", result.Stats[0].Tag)
	}

	// With weight 0 the ranking reduces to mean score only.
	result = AnalyzeTagPatterns(table, 0)
	if result.Stats[0].Tag != "strong" {
		t.Errorf("first tag at weight 0 = %q, want strong", result.Stats[0].Tag)
	}
}

func TestAnalyzeTagPatternsTieBreakIsFirstObserved(t *testing.T) {
	// Both tags end with identical count and mean; first-observed order must
	// survive the stable sort, on every rebuild.
	table := patternTable([][]string{
		{"p", `['beta']`, "0.5"},
		{"p", `['alpha']`, "0.5"},
	})

	for i := 0; i < 10; i++ {
		result := AnalyzeTagPatterns(table, 2.0)
		if result.Stats[0].Tag != "beta" || result.Stats[1].Tag != "alpha" {
			t.Fatalf("tie order changed on run %d: %+v", i, result.Stats)
		}
	}
}

func TestAnalyzeTagPatternsSkipsMalformedRows(t *testing.T) {
	table := patternTable([][]string{
		{"p1", `['x']`, "1.0"},
		{"p2", `not a list`, "0.5"},
		{"p3", `['x']`, "not-a-number"},
		{"p4", `['x']`, "0.5"},
	})

	result := AnalyzeTagPatterns(table, 2.0)

	if result.SkippedRows != 2 {
		t.Errorf("SkippedRows = %d, want 2", result.SkippedRows)
	}
	if len(result.Stats) != 1 {
		t.Fatalf("stats = %d, want 1", len(result.Stats))
	}
	if s := result.Stats[0]; s.TagCount != 2 || math.Abs(s.AverageEMScore-0.75) > 1e-9 {
		t.Errorf("x = %+v, want count 2 mean 0.75", s)
	}
}

func TestAnalyzeTagPatternsMissingColumns(t *testing.T) {
	table := Table{Columns: []string{"original_passage"}, Rows: [][]string{{"p"}}}
	result := AnalyzeTagPatterns(table, 2.0)
	if len(result.Stats) != 0 {
		t.Errorf("expected no stats without tag/score columns, got %+v", result.Stats)
	}
}

func TestAnalyzeTagPatternsSingleRowScenario(t *testing.T) {
	// One surviving file with one row: exactly one tag, mean 1.0, count 1.
	table := patternTable([][]string{{"a <span> b", `['x']`, "1.0"}})

	result := AnalyzeTagPatterns(table, 2.0)

	want := []TagStat{{Tag: "x", AverageEMScore: 1.0, TagCount: 1}}
	if !reflect.DeepEqual(result.Stats, want) {
		t.Errorf("Stats = %+v, want %+v", result.Stats, want)
	}
}
