package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linedash/adapters/chart"
	"linedash/domain/dataset"
	"linedash/domain/selection"
	"linedash/internal/errors"
	"linedash/internal/pipeline"
	"linedash/internal/testkit"
)

func newSampleService(t *testing.T, withStatus bool, opts Options) *DashboardService {
	t.Helper()
	svc, err := NewDashboardService(&Datasets{
		Lines:    testkit.SampleLines(),
		Stations: testkit.SampleStations(withStatus),
	}, opts)
	require.NoError(t, err)
	return svc
}

func defaultOptions() Options {
	return Options{StationSectionEnabled: true, TopN: 20, GridPageSize: 25}
}

func sectionByID(t *testing.T, view *View, id SectionID) Section {
	t.Helper()
	for _, s := range view.Sections {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("section %s not in view", id)
	return Section{}
}

func TestBuildDefaultSelection(t *testing.T) {
	svc := newSampleService(t, true, defaultOptions())

	view := svc.Build(svc.DefaultSelection())

	assert.Equal(t, PageTitle, view.Title)
	assert.Contains(t, string(view.Description), "<p>Explore os dados")
	assert.Equal(t, 10, view.FilteredRows)
	assert.Equal(t, pipeline.Summary{{Value: "CLARO", Count: 3}, {Value: "TIM", Count: 2}, {Value: "VIVO", Count: 5}}, view.OperatorCounts)
	require.Len(t, view.Sections, 6)

	operator := sectionByID(t, view, SectionOperator)
	assert.True(t, operator.Ready())
	assert.Equal(t, chart.KindPie, operator.Kind)
	assert.Equal(t, pipeline.Summary{{Value: "VIVO", Count: 5}, {Value: "CLARO", Count: 3}, {Value: "TIM", Count: 2}}, operator.Summary)
	require.NotNil(t, operator.Distribution)
	assert.Equal(t, []float64{50, 30, 20}, operator.Distribution.Shares)

	role := sectionByID(t, view, SectionRole)
	assert.Equal(t, chart.KindBar, role.Kind)
	assert.Equal(t, pipeline.Summary{{Value: "SUPERVISOR", Count: 2}, {Value: "FRENTISTA", Count: 3}, {Value: "GERENTE", Count: 5}}, role.Summary)

	unused := sectionByID(t, view, SectionUnused)
	assert.False(t, unused.IsChart())
	require.True(t, unused.Ready())
	assert.Equal(t, UnusedColumns, unused.Table.Columns)
	assert.Equal(t, 4, unused.Table.Len())

	require.NotNil(t, view.Stations)
	assert.Equal(t, StationsTitle, view.Stations.Title)
	assert.Equal(t, pipeline.Summary{{Value: "Sem número", Count: 3}, {Value: "Com número", Count: 1}}, view.Stations.Status.Summary)
	assert.Contains(t, string(view.Stations.Suggestion), "<strong>Sugestão:</strong>")
	assert.Same(t, svc.Datasets().Lines, view.AllData)
}

func TestBuildTopNLimitsBars(t *testing.T) {
	opts := defaultOptions()
	opts.TopN = 2
	svc := newSampleService(t, true, opts)

	role := sectionByID(t, svc.Build(svc.DefaultSelection()), SectionRole)
	assert.Equal(t, pipeline.Summary{{Value: "FRENTISTA", Count: 3}, {Value: "GERENTE", Count: 5}}, role.Summary)
}

func TestBuildEmptySelectionWarnsPerSection(t *testing.T) {
	svc := newSampleService(t, true, defaultOptions())
	sel := svc.DefaultSelection().With(dataset.ColOperator)

	view := svc.Build(sel)

	assert.Equal(t, 0, view.FilteredRows)
	for _, s := range view.Sections {
		require.NotNil(t, s.Notice, s.ID)
		assert.Equal(t, NoticeWarning, s.Notice.Level, s.ID)
		assert.Contains(t, s.Notice.Message, "Nenhum dado", s.ID)
	}
	// unfiltered parts keep rendering
	assert.True(t, view.Stations.Status.Ready())
	assert.Len(t, view.OperatorCounts, 3)
}

func TestBuildNoUnusedLinesShowsInfo(t *testing.T) {
	svc := newSampleService(t, true, defaultOptions())
	view := svc.Build(svc.DefaultSelection().With(dataset.ColUsage, "Em uso"))

	unused := sectionByID(t, view, SectionUnused)
	require.NotNil(t, unused.Notice)
	assert.Equal(t, NoticeInfo, unused.Notice.Level)
	assert.Equal(t, "Nenhuma linha com status 'Sem uso' encontrada.", unused.Notice.Message)
	assert.True(t, sectionByID(t, view, SectionOperator).Ready())
}

func TestBuildMissingStatusColumn(t *testing.T) {
	svc := newSampleService(t, false, defaultOptions())
	view := svc.Build(svc.DefaultSelection())

	require.NotNil(t, view.Stations)
	status := view.Stations.Status
	require.NotNil(t, status.Notice)
	assert.Equal(t, NoticeWarning, status.Notice.Level)
	assert.Contains(t, status.Notice.Message, "A coluna 'STATUS' não foi encontrada")
	assert.Equal(t, 4, view.Stations.Table.Len())

	for _, s := range view.Sections {
		assert.True(t, s.Ready(), s.ID)
	}
}

func TestBuildVariantToggles(t *testing.T) {
	svc := newSampleService(t, true, Options{DataGridEnabled: true})
	view := svc.Build(svc.DefaultSelection())

	assert.Nil(t, view.Stations)
	assert.Nil(t, view.AllData)
	assert.True(t, view.GridEnabled)
	assert.Equal(t, 20, svc.Options().TopN)
	assert.Equal(t, 25, svc.Options().GridPageSize)

	_, err := svc.Section(svc.DefaultSelection(), SectionStationStatus)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestNormalize(t *testing.T) {
	svc := newSampleService(t, true, defaultOptions())

	sel := svc.Normalize(selection.Selection{
		dataset.ColOperator: selection.NewSet("VIVO", "OI"),
		"LINHA":             selection.NewSet("(11) 91000-2000"),
	})

	assert.Equal(t, []string{"VIVO"}, sel.Values(dataset.ColOperator))
	assert.NotContains(t, sel, "LINHA")
	for _, col := range dataset.FilterColumns[1:] {
		assert.Equal(t, svc.Catalog().Options(col), sel.Values(col))
	}
	assert.Equal(t, 5, svc.Filtered(sel).Len())
}

func TestChart(t *testing.T) {
	svc := newSampleService(t, true, defaultOptions())
	all := svc.DefaultSelection()

	spec, err := svc.Chart(all, SectionGroup)
	require.NoError(t, err)
	assert.Equal(t, chart.KindBar, spec.Kind)
	assert.Equal(t, "Qtd de Linhas por Grupo", spec.Title)
	assert.Equal(t, pipeline.Summary{{Value: "RODOVIA", Count: 4}, {Value: "URBANO", Count: 6}}, spec.Summary)

	spec, err = svc.Chart(all, SectionStationStatus)
	require.NoError(t, err)
	assert.Equal(t, chart.KindPie, spec.Kind)

	tests := []struct {
		name string
		sel  selection.Selection
		id   SectionID
		code string
	}{
		{"table section", all, SectionUnused, errors.CodeNotFound},
		{"unknown section", all, "bogus", errors.CodeNotFound},
		{"nothing selected", all.With(dataset.ColGroup), SectionOperator, errors.CodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Chart(tt.sel, tt.id)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestUnusedProjection(t *testing.T) {
	svc := newSampleService(t, true, defaultOptions())
	unused := svc.Unused(svc.DefaultSelection().With(dataset.ColOperator, "VIVO"))

	require.Equal(t, 2, unused.Len())
	assert.Equal(t, []string{"VIVO", "FRENTISTA", "RODOVIA", "2GB", "Sem uso"}, unused.Records()[0])
	assert.Equal(t, []string{"VIVO", "GERENTE", "RODOVIA", "5GB", "SEM USO"}, unused.Records()[1])
}

func TestNewDashboardServiceRequiresData(t *testing.T) {
	_, err := NewDashboardService(&Datasets{Lines: testkit.SampleLines()}, defaultOptions())
	assert.Error(t, err)
}
