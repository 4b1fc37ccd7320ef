package main

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

const maxDisplayRows = 500

// StartDashboardServer blocks serving the dashboard until the listener fails.
func StartDashboardServer(cfg Config, src *DataSource) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", handleDashboard(cfg, src))
	mux.HandleFunc("/export", handleExport(src))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	log.Printf("Dashboard listening on %s", cfg.ListenAddr)
	return http.ListenAndServe(cfg.ListenAddr, mux)
}

func handleDashboard(cfg Config, src *DataSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		view := dashboardView{
			Title:     "B-Peach EM Score Dashboard",
			Weight:    cfg.WeightFactor,
			Generated: time.Now().In(cfg.Location),
		}

		files, listWarning := src.Files()
		view.Files = files
		view.ListWarning = listWarning
		if len(files) == 0 {
			// No aggregation attempted; the template renders the no-files state.
			renderDashboard(w, view)
			return
		}

		view.SelectedFile = r.URL.Query().Get("file")
		if view.SelectedFile == "" || !containsString(files, view.SelectedFile) {
			view.SelectedFile = files[0]
		}

		aggregated, warnings := AggregateFiles(src, files)
		view.Warnings = warnings
		view.TotalRows = len(aggregated.Rows)
		view.Aggregated = aggregated
		if len(aggregated.Rows) > maxDisplayRows {
			view.Aggregated = Table{Columns: aggregated.Columns, Rows: aggregated.Rows[:maxDisplayRows]}
			view.TruncatedRows = len(aggregated.Rows) - maxDisplayRows
		}

		if !aggregated.Empty() {
			view.Patterns = AnalyzeTagPatterns(aggregated, cfg.WeightFactor)
			boxJSON, err := boxPlotJSON(aggregated)
			if err != nil {
				log.Printf("boxplot data error: %v", err)
			} else {
				view.BoxPlot = boxJSON
			}
		}

		selected := src.Dataset(view.SelectedFile)
		if !selected.Table.Empty() {
			view.SelectedStats = Describe(selected.Table.WithSpanCount())
			view.ExportURL = "/export?file=" + url.QueryEscape(view.SelectedFile)
		}

		renderDashboard(w, view)
	}
}

func handleExport(src *DataSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("file")
		if name == "" {
			http.Error(w, "missing file parameter", http.StatusBadRequest)
			return
		}

		ds := src.Dataset(name)
		if ds.Table.Empty() {
			http.Error(w, fmt.Sprintf("no data for file %s", name), http.StatusNotFound)
			return
		}

		data, err := ds.Table.WithSpanCount().MarshalCSV(true)
		if err != nil {
			log.Printf("export failed file=%s err=%v", name, err)
			http.Error(w, "export failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		w.Write(data)
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
