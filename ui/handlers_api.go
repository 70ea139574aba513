package ui

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"linedash/app"
	"linedash/domain/selection"
	"linedash/internal/errors"
	"linedash/internal/pipeline"
)

// selectionRequest is the body of every POST endpoint
type selectionRequest struct {
	Selection map[string][]string `json:"selection"`
	Page      int                 `json:"page"`
	PageSize  int                 `json:"page_size"`
	SortBy    string              `json:"sort"`
	Direction string              `json:"dir"`
}

type catalogColumn struct {
	Column  string   `json:"column"`
	Label   string   `json:"label"`
	Options []string `json:"options"`
}

// decodeSelection reads the request body. An empty body means no filters.
func (a *App) decodeSelection(r *http.Request) (selectionRequest, selection.Selection, error) {
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !stderrors.Is(err, io.EOF) {
		return req, nil, errors.InvalidInput(fmt.Sprintf("invalid request body: %v", err))
	}

	sel := make(selection.Selection, len(req.Selection))
	for col, values := range req.Selection {
		sel[col] = selection.NewSet(values...)
	}
	return req, a.dashboard.Normalize(sel), nil
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	data := a.dashboard.Datasets()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"lines":    data.Lines.Len(),
		"stations": data.Stations.Len(),
	})
}

func (a *App) handleCatalog(w http.ResponseWriter, r *http.Request) {
	catalog := a.dashboard.Catalog()
	columns := make([]catalogColumn, 0, len(catalog.Columns()))
	for _, col := range catalog.Columns() {
		columns = append(columns, catalogColumn{
			Column:  col,
			Label:   app.FilterLabels[col],
			Options: catalog.Options(col),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"columns": columns})
}

// handleFilter returns one page of the filtered lines.
func (a *App) handleFilter(w http.ResponseWriter, r *http.Request) {
	req, sel, err := a.decodeSelection(r)
	if err != nil {
		writeError(w, err)
		return
	}

	filtered := a.dashboard.Filtered(sel)
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = a.dashboard.Options().GridPageSize
	}
	page, err := app.Grid(filtered, app.GridQuery{
		Page:      req.Page,
		PageSize:  pageSize,
		SortBy:    req.SortBy,
		Direction: app.SortDirection(req.Direction),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_rows":    a.dashboard.Datasets().Lines.Len(),
		"filtered_rows": filtered.Len(),
		"fingerprint":   sel.Fingerprint().Short(),
		"page":          page,
	})
}

// handleSummary returns value counts of one filter column, optionally
// limited to the top N in ascending order.
func (a *App) handleSummary(w http.ResponseWriter, r *http.Request) {
	column := chi.URLParam(r, "column")
	if !a.dashboard.Catalog().Has(column) {
		writeError(w, errors.NotFound(fmt.Sprintf("column %s", column)))
		return
	}

	top := 0
	if raw := r.URL.Query().Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, errors.InvalidInput(fmt.Sprintf("top must be a positive integer, got %q", raw)))
			return
		}
		top = n
	}

	_, sel, err := a.decodeSelection(r)
	if err != nil {
		writeError(w, err)
		return
	}

	summary := pipeline.ValueCounts(a.dashboard.Filtered(sel), column)
	if top > 0 {
		summary = pipeline.TopN(summary, top)
	}
	dist, err := pipeline.Describe(summary)
	if err != nil {
		writeError(w, errors.Wrap(err, "failed to describe summary"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"column":       column,
		"summary":      summary,
		"distribution": dist,
	})
}

func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	_, sel, err := a.decodeSelection(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.dashboard.Build(sel))
}

func (a *App) handleStationStatus(w http.ResponseWriter, r *http.Request) {
	sec, err := a.dashboard.Section(nil, app.SectionStationStatus)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sec)
}
