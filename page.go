package main

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

type dashboardView struct {
	Title         string
	Files         []string
	SelectedFile  string
	ListWarning   string
	Warnings      []string
	Aggregated    Table
	TotalRows     int
	TruncatedRows int
	Patterns      PatternResult
	SelectedStats []ColumnStats
	ExportURL     string
	BoxPlot       template.JS
	Weight        float64
	Generated     time.Time
}

func renderDashboard(w http.ResponseWriter, view dashboardView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, view); err != nil {
		log.Printf("render error: %v", err)
	}
}

type boxPlotData struct {
	Labels []string    `json:"labels"`
	Series [][]float64 `json:"series"`
}

// boxPlotJSON groups em_score values by span_count bucket and serializes the
// raw per-bucket score arrays for the chart, buckets in ascending order.
func boxPlotJSON(t Table) (template.JS, error) {
	spanIdx := t.ColumnIndex(spanCountColumn)
	scoreIdx := t.ColumnIndex(scoreColumn)
	if spanIdx < 0 || scoreIdx < 0 {
		return "", fmt.Errorf("missing %s or %s column", spanCountColumn, scoreColumn)
	}

	buckets := make(map[int][]float64)
	for _, row := range t.Rows {
		span, err := strconv.Atoi(strings.TrimSpace(row[spanIdx]))
		if err != nil {
			continue
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(row[scoreIdx]), 64)
		if err != nil {
			continue
		}
		buckets[span] = append(buckets[span], score)
	}

	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	data := boxPlotData{}
	for _, k := range keys {
		data.Labels = append(data.Labels, strconv.Itoa(k))
		data.Series = append(data.Series, buckets[k])
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return template.JS(encoded), nil
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(dashboardHTML))

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<script src="https://cdn.jsdelivr.net/npm/chart.js@4"></script>
<script src="https://cdn.jsdelivr.net/npm/@sgratzl/chartjs-chart-boxplot@4"></script>
<style>
    * { box-sizing: border-box; margin: 0; padding: 0; }
    body {
        font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
        background: #f5f5f5;
        color: #333;
        line-height: 1.6;
        padding: 20px;
    }
    .layout { display: flex; gap: 20px; max-width: 1400px; margin: 0 auto; }
    .sidebar { width: 300px; flex-shrink: 0; }
    .main { flex-grow: 1; min-width: 0; }
    h1 { color: #2c3e50; margin-bottom: 10px; }
    h2 { color: #2c3e50; margin: 24px 0 12px; padding-bottom: 8px; border-bottom: 2px solid #e67e22; }
    .panel { background: white; padding: 16px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); margin-bottom: 20px; }
    .warning { background: #fdf3e7; border-left: 4px solid #e67e22; padding: 10px 14px; border-radius: 4px; margin-bottom: 10px; }
    .empty { color: #7f8c8d; padding: 20px; text-align: center; }
    .scroll { max-height: 420px; overflow: auto; }
    table { width: 100%; border-collapse: collapse; font-size: 0.9em; }
    th, td { padding: 8px 10px; text-align: left; border-bottom: 1px solid #eee; white-space: nowrap; }
    th { background: #2c3e50; color: white; position: sticky; top: 0; }
    tr:hover { background: #f9f9f9; }
    select { padding: 6px 10px; border-radius: 4px; border: 1px solid #ccc; width: 100%; }
    .download { display: inline-block; margin-top: 10px; padding: 8px 14px; background: #e67e22; color: white; border-radius: 4px; text-decoration: none; }
    .note { color: #666; font-size: 0.85em; margin-top: 6px; }
    .chart-wrapper { position: relative; height: 360px; }
    .timestamp { color: #666; font-size: 0.85em; margin-bottom: 20px; }
</style>
</head>
<body>
<div class="layout">
<div class="sidebar">
    <div class="panel">
        <h2>Files</h2>
        {{if .Files}}
        <p>Found {{len .Files}} CSV files in the folder.</p>
        <form method="get" action="/">
            <select name="file" onchange="this.form.submit()">
                {{$selected := .SelectedFile}}
                {{range .Files}}<option value="{{.}}" {{if eq . $selected}}selected{{end}}>{{.}}</option>
                {{end}}
            </select>
        </form>
        {{else}}
        <div class="empty">No CSV files found in the specified folder.</div>
        {{end}}
    </div>
    {{if .SelectedStats}}
    <div class="panel">
        <h2>Data Statistics</h2>
        <p class="note">{{.SelectedFile}}</p>
        <div class="scroll">
        <table>
            <tr><th>column</th><th>count</th><th>mean</th><th>std</th><th>min</th><th>25%</th><th>50%</th><th>75%</th><th>max</th></tr>
            {{range .SelectedStats}}
            <tr>
                <td>{{.Name}}</td><td>{{.Count}}</td>
                <td>{{printf "%.4f" .Mean}}</td><td>{{printf "%.4f" .Std}}</td>
                <td>{{printf "%.4f" .Min}}</td><td>{{printf "%.4f" .Q25}}</td>
                <td>{{printf "%.4f" .Q50}}</td><td>{{printf "%.4f" .Q75}}</td>
                <td>{{printf "%.4f" .Max}}</td>
            </tr>
            {{end}}
        </table>
        </div>
        {{if .ExportURL}}<a class="download" href="{{.ExportURL}}">Download CSV</a>{{end}}
    </div>
    {{end}}
</div>
<div class="main">
    <h1>&#127825; {{.Title}}</h1>
    <div class="timestamp">Generated {{.Generated.Format "2006-01-02 15:04:05"}}</div>

    {{if .ListWarning}}<div class="warning">{{.ListWarning}}</div>{{end}}
    {{range .Warnings}}<div class="warning">{{.}}</div>{{end}}

    {{if .Files}}
    <div class="panel">
        <h2>Aggregated Data Overview</h2>
        {{if .Aggregated.Rows}}
        <div class="scroll">
        <table>
            <tr>{{range .Aggregated.Columns}}<th>{{.}}</th>{{end}}</tr>
            {{range .Aggregated.Rows}}
            <tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
            {{end}}
        </table>
        </div>
        <p class="note">{{.TotalRows}} rows total{{if .TruncatedRows}} ({{.TruncatedRows}} hidden from preview){{end}}.</p>
        {{else}}
        <div class="empty">No data to visualize.</div>
        {{end}}
    </div>

    {{if .Patterns.Stats}}
    <div class="panel">
        <h2>Tag Patterns</h2>
        <p class="note">Ranked by average_em_score + tag_count &times; {{printf "%g" .Weight}}.{{if .Patterns.SkippedRows}} Skipped {{.Patterns.SkippedRows}} malformed rows.{{end}}</p>
        <div class="scroll">
        <table>
            <tr><th>tag</th><th>average_em_score</th><th>tag_count</th></tr>
            {{range .Patterns.Stats}}
            <tr><td>{{.Tag}}</td><td>{{printf "%.4f" .AverageEMScore}}</td><td>{{.TagCount}}</td></tr>
            {{end}}
        </table>
        </div>
    </div>
    {{end}}

    {{if .BoxPlot}}
    <div class="panel">
        <h2>EM Score by Number of &lt;span&gt; Tags</h2>
        <div class="chart-wrapper"><canvas id="boxplot"></canvas></div>
    </div>
    <script>
    (function () {
        const raw = {{.BoxPlot}};
        new Chart(document.getElementById('boxplot'), {
            type: 'boxplot',
            data: {
                labels: raw.labels,
                datasets: [{
                    label: 'EM Score',
                    data: raw.series,
                    backgroundColor: 'rgba(230, 126, 34, 0.4)',
                    borderColor: '#e67e22',
                    borderWidth: 1
                }]
            },
            options: {
                responsive: true,
                maintainAspectRatio: false,
                plugins: { legend: { display: false } },
                scales: {
                    x: { title: { display: true, text: 'Number of <span> Tags' } },
                    y: { title: { display: true, text: 'EM Score' } }
                }
            }
        });
    })();
    </script>
    {{end}}
    {{end}}
</div>
</div>
</body>
</html>
`
