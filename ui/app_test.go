package ui

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"linedash/app"
)

func callAPI(a *App, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	return rec
}

func TestAPICatalog(t *testing.T) {
	a := NewApp(newTestDashboard(t, app.Options{}))

	rec := callAPI(a, http.MethodGet, "/api/catalog", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, int64(5), gjson.Get(body, "columns.#").Int())
	assert.Equal(t, "OPERADORA", gjson.Get(body, "columns.0.column").String())
	assert.Equal(t, "Operadora", gjson.Get(body, "columns.0.label").String())
	assert.Equal(t, `["CLARO","TIM","VIVO"]`, gjson.Get(body, "columns.0.options").Raw)
	assert.Equal(t, `["Em uso","SEM USO","Sem uso"]`, gjson.Get(body, `columns.#(column=="AGOSTO").options`).Raw)
}

func TestAPIFilter(t *testing.T) {
	a := NewApp(newTestDashboard(t, app.Options{}))

	tests := []struct {
		name         string
		body         string
		wantFiltered int64
		wantRecords  int64
		wantPages    int64
	}{
		{"empty body keeps everything", "", 10, 10, 1},
		{"empty selection keeps everything", `{"selection":{}}`, 10, 10, 1},
		{"single operator", `{"selection":{"OPERADORA":["VIVO"]},"page_size":2}`, 5, 2, 3},
		{"and across columns", `{"selection":{"OPERADORA":["VIVO"],"FUNCAO":["GERENTE"]}}`, 3, 3, 1},
		{"empty set selects nothing", `{"selection":{"AGOSTO":[]}}`, 0, 0, 1},
		{"unknown values dropped", `{"selection":{"OPERADORA":["OI"]}}`, 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := callAPI(a, http.MethodPost, "/api/filter", tt.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			body := rec.Body.String()
			assert.Equal(t, int64(10), gjson.Get(body, "total_rows").Int())
			assert.Equal(t, tt.wantFiltered, gjson.Get(body, "filtered_rows").Int())
			assert.Equal(t, tt.wantRecords, gjson.Get(body, "page.records.#").Int())
			assert.Equal(t, tt.wantPages, gjson.Get(body, "page.total_pages").Int())
			assert.NotEmpty(t, gjson.Get(body, "fingerprint").String())
		})
	}
}

func TestAPIFilterSorted(t *testing.T) {
	a := NewApp(newTestDashboard(t, app.Options{}))

	rec := callAPI(a, http.MethodPost, "/api/filter", `{"sort":"OPERADORA","dir":"desc","page_size":3}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	col := -1
	for i, c := range gjson.Get(body, "page.columns").Array() {
		if c.String() == "OPERADORA" {
			col = i
		}
	}
	require.GreaterOrEqual(t, col, 0)
	for _, row := range gjson.Get(body, "page.records").Array() {
		assert.Equal(t, "VIVO", row.Array()[col].String())
	}
}

func TestAPIFilterRejectsBadInput(t *testing.T) {
	a := NewApp(newTestDashboard(t, app.Options{}))

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"selection":`},
		{"unknown sort column", `{"sort":"NOPE"}`},
		{"bad direction", `{"sort":"OPERADORA","dir":"sideways"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := callAPI(a, http.MethodPost, "/api/filter", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "INVALID_INPUT", gjson.Get(rec.Body.String(), "error").String())
		})
	}
}

func TestAPISummary(t *testing.T) {
	a := NewApp(newTestDashboard(t, app.Options{}))

	t.Run("value counts", func(t *testing.T) {
		rec := callAPI(a, http.MethodPost, "/api/summary/OPERADORA", "")
		require.Equal(t, http.StatusOK, rec.Code)

		body := rec.Body.String()
		assert.Equal(t, "VIVO", gjson.Get(body, "summary.0.value").String())
		assert.Equal(t, int64(5), gjson.Get(body, "summary.0.count").Int())
		assert.Equal(t, int64(3), gjson.Get(body, "distribution.categories").Int())
		assert.Equal(t, int64(10), gjson.Get(body, "distribution.total").Int())
		assert.InDelta(t, 50.0, gjson.Get(body, "distribution.shares.0").Float(), 1e-9)
	})

	t.Run("top n ascending", func(t *testing.T) {
		rec := callAPI(a, http.MethodPost, "/api/summary/FUNCAO?top=2", "")
		require.Equal(t, http.StatusOK, rec.Code)

		body := rec.Body.String()
		assert.Equal(t, `["FRENTISTA","GERENTE"]`, gjson.Get(body, "summary.#.value").Raw)
		assert.Equal(t, `[3,5]`, gjson.Get(body, "summary.#.count").Raw)
		assert.Equal(t, int64(8), gjson.Get(body, "distribution.total").Int())
	})

	t.Run("filtered", func(t *testing.T) {
		rec := callAPI(a, http.MethodPost, "/api/summary/AGOSTO", `{"selection":{"OPERADORA":["CLARO"]}}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `[{"value":"Sem uso","count":2},{"value":"Em uso","count":1}]`,
			gjson.Get(rec.Body.String(), "summary").Raw)
	})

	t.Run("empty selection", func(t *testing.T) {
		rec := callAPI(a, http.MethodPost, "/api/summary/GRUPO", `{"selection":{"GRUPO":[]}}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(0), gjson.Get(rec.Body.String(), "summary.#").Int())
		assert.Equal(t, int64(0), gjson.Get(rec.Body.String(), "distribution.total").Int())
	})

	t.Run("unknown column", func(t *testing.T) {
		rec := callAPI(a, http.MethodPost, "/api/summary/LINHA", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad top", func(t *testing.T) {
		for _, top := range []string{"abc", "0", "-1"} {
			rec := callAPI(a, http.MethodPost, "/api/summary/FUNCAO?top="+top, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code, top)
		}
	})
}

func TestAPIDashboard(t *testing.T) {
	a := NewApp(newTestDashboard(t, app.Options{StationSectionEnabled: true}))

	rec := callAPI(a, http.MethodPost, "/api/dashboard", `{"selection":{"OPERADORA":["TIM"]}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, app.PageTitle, gjson.Get(body, "title").String())
	assert.Equal(t, int64(2), gjson.Get(body, "filtered_rows").Int())
	assert.Equal(t, int64(6), gjson.Get(body, "sections.#").Int())
	assert.Equal(t, `["CLARO","TIM","VIVO"]`, gjson.Get(body, "operator_counts.#.value").Raw)
	assert.Equal(t, "Sem número", gjson.Get(body, "stations.status.summary.0.value").String())
	assert.Equal(t, "info", gjson.Get(body, `sections.#(id=="sem_uso").notice.level`).String())
}

func TestAPIStationStatus(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		a := NewApp(newTestDashboard(t, app.Options{StationSectionEnabled: true}))
		rec := callAPI(a, http.MethodGet, "/api/stations/status", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(3), gjson.Get(rec.Body.String(), "summary.0.count").Int())
		assert.Equal(t, "pie", gjson.Get(rec.Body.String(), "kind").String())
	})

	t.Run("disabled", func(t *testing.T) {
		a := NewApp(newTestDashboard(t, app.Options{}))
		rec := callAPI(a, http.MethodGet, "/api/stations/status", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAPIHealth(t *testing.T) {
	a := NewApp(newTestDashboard(t, app.Options{}))

	rec := callAPI(a, http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", gjson.Get(rec.Body.String(), "status").String())
}
