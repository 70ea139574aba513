package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linedash/adapters/chart"
	"linedash/app"
	"linedash/domain/dataset"
	"linedash/internal/errors"
	"linedash/internal/testkit"
)

func newChartService(t *testing.T, capacity int) (*ChartService, *app.DashboardService) {
	t.Helper()
	dashboard, err := app.NewDashboardService(&app.Datasets{
		Lines:    testkit.SampleLines(),
		Stations: testkit.SampleStations(true),
	}, app.Options{StationSectionEnabled: true})
	require.NoError(t, err)
	return NewChartService(dashboard, chart.NewRenderer(320, 240), capacity), dashboard
}

func TestChartServiceCachesBySelection(t *testing.T) {
	svc, dashboard := newChartService(t, 8)
	sel := dashboard.DefaultSelection()

	first, err := svc.PNG(sel, app.SectionOperator)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(first, []byte("\x89PNG")))
	assert.Equal(t, 1, svc.Len())

	again, err := svc.PNG(sel, app.SectionOperator)
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, svc.Len())

	narrowed := sel.With(dataset.ColOperator, "VIVO")
	assert.NotEqual(t, svc.Key(sel, app.SectionOperator), svc.Key(narrowed, app.SectionOperator))
	_, err = svc.PNG(narrowed, app.SectionOperator)
	require.NoError(t, err)
	assert.Equal(t, 2, svc.Len())
}

func TestChartServiceEvictsOldest(t *testing.T) {
	svc, dashboard := newChartService(t, 2)
	sel := dashboard.DefaultSelection()

	for _, id := range []app.SectionID{app.SectionOperator, app.SectionDataTier, app.SectionRole} {
		_, err := svc.PNG(sel, id)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, svc.Len())
	svc.mu.RLock()
	_, kept := svc.cache[svc.Key(sel, app.SectionOperator)]
	svc.mu.RUnlock()
	assert.False(t, kept)
}

func TestChartServiceErrors(t *testing.T) {
	svc, dashboard := newChartService(t, 8)

	_, err := svc.PNG(dashboard.DefaultSelection(), app.SectionUnused)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	empty := dashboard.DefaultSelection().With(dataset.ColOperator)
	_, err = svc.PNG(empty, app.SectionGroup)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	assert.Equal(t, 0, svc.Len())
}
