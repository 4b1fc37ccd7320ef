package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const defaultWeightFactor = 2.0

// TagStat is the per-tag summary row of the pattern analysis.
type TagStat struct {
	Tag            string
	AverageEMScore float64
	TagCount       int
}

// CompositeScore ranks a tag by mean score plus weighted frequency.
func (s TagStat) CompositeScore(weight float64) float64 {
	return s.AverageEMScore + float64(s.TagCount)*weight
}

// PatternResult is the analysis output: tags sorted descending by composite
// score, ties kept in first-observed order. SkippedRows counts rows whose
// tagged_words or em_score cell could not be interpreted.
type PatternResult struct {
	Stats       []TagStat
	Weight      float64
	SkippedRows int
}

// TagParseError describes one uninterpretable tagged_words cell.
type TagParseError struct {
	Row  int
	Cell string
	Err  error
}

func (e *TagParseError) Error() string {
	return fmt.Sprintf("row %d: parsing tag list %q: %v", e.Row, e.Cell, e.Err)
}

func (e *TagParseError) Unwrap() error { return e.Err }

type tagAccumulator struct {
	count    int
	scoreSum float64
}

// AnalyzeTagPatterns walks the aggregated table, parses each row's tag list,
// and accumulates occurrence counts and score sums per tag. Malformed rows
// are skipped and counted rather than failing the whole analysis.
func AnalyzeTagPatterns(t Table, weight float64) PatternResult {
	result := PatternResult{Weight: weight}

	tagsIdx := t.ColumnIndex(tagsColumn)
	scoreIdx := t.ColumnIndex(scoreColumn)
	if tagsIdx < 0 || scoreIdx < 0 {
		return result
	}

	// Insertion order doubles as the tie-break order, so accumulation keeps
	// an explicit ordered key list next to the map.
	var order []string
	accum := make(map[string]*tagAccumulator)

	for i, row := range t.Rows {
		tags, err := ParseTagList(i, row[tagsIdx])
		if err != nil {
			result.SkippedRows++
			continue
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(row[scoreIdx]), 64)
		if err != nil {
			result.SkippedRows++
			continue
		}
		for _, tag := range tags {
			a, ok := accum[tag]
			if !ok {
				a = &tagAccumulator{}
				accum[tag] = a
				order = append(order, tag)
			}
			a.count++
			a.scoreSum += score
		}
	}

	for _, tag := range order {
		a := accum[tag]
		result.Stats = append(result.Stats, TagStat{
			Tag:            tag,
			AverageEMScore: a.scoreSum / float64(a.count),
			TagCount:       a.count,
		})
	}

	sort.SliceStable(result.Stats, func(i, j int) bool {
		return result.Stats[i].CompositeScore(weight) > result.Stats[j].CompositeScore(weight)
	})
	return result
}

// ParseTagList decodes a text-serialized list of tag labels. The cell is
// untrusted input written by an upstream Python pipeline, so it is decoded
// strictly: first as a JSON array of strings, then as a Python-style list
// literal rewritten to JSON. Anything else is a TagParseError.
func ParseTagList(row int, cell string) ([]string, error) {
	trimmed := strings.TrimSpace(cell)
	if !strings.HasPrefix(trimmed, "[") {
		return nil, &TagParseError{Row: row, Cell: cell, Err: fmt.Errorf("not a list literal")}
	}

	var tags []string
	if err := json.Unmarshal([]byte(trimmed), &tags); err == nil {
		return tags, nil
	}

	converted, err := pythonListToJSON(trimmed)
	if err != nil {
		return nil, &TagParseError{Row: row, Cell: cell, Err: err}
	}
	if err := json.Unmarshal([]byte(converted), &tags); err != nil {
		return nil, &TagParseError{Row: row, Cell: cell, Err: err}
	}
	return tags, nil
}

// pythonListToJSON rewrites a Python repr of a list of strings, e.g.
// ['PER', 'LOC'], into a JSON array. Only string elements are accepted.
func pythonListToJSON(s string) (string, error) {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return "", fmt.Errorf("not a list literal")
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])

	var out strings.Builder
	out.WriteByte('[')
	i := 0
	first := true
	for i < len(inner) {
		for i < len(inner) && (inner[i] == ' ' || inner[i] == '\t') {
			i++
		}
		if i >= len(inner) {
			break
		}
		quote := inner[i]
		if quote != '\'' && quote != '"' {
			return "", fmt.Errorf("element at offset %d is not a string literal", i)
		}
		i++
		var elem strings.Builder
		closed := false
		for i < len(inner) {
			c := inner[i]
			if c == '\\' && i+1 < len(inner) {
				next := inner[i+1]
				switch next {
				case 'n':
					elem.WriteByte('\n')
				case 't':
					elem.WriteByte('\t')
				case '\\', '\'', '"':
					elem.WriteByte(next)
				default:
					elem.WriteByte('\\')
					elem.WriteByte(next)
				}
				i += 2
				continue
			}
			if c == quote {
				closed = true
				i++
				break
			}
			elem.WriteByte(c)
			i++
		}
		if !closed {
			return "", fmt.Errorf("unterminated string literal")
		}
		if !first {
			out.WriteByte(',')
		}
		first = false
		encoded, err := json.Marshal(elem.String())
		if err != nil {
			return "", err
		}
		out.Write(encoded)

		for i < len(inner) && (inner[i] == ' ' || inner[i] == '\t') {
			i++
		}
		if i < len(inner) {
			if inner[i] != ',' {
				return "", fmt.Errorf("expected ',' at offset %d", i)
			}
			i++
		}
	}
	out.WriteByte(']')
	return out.String(), nil
}
