package services

import (
	"bytes"
	"sync"

	"linedash/adapters/chart"
	"linedash/app"
	"linedash/domain/selection"
	"linedash/internal"
)

// ChartService renders section charts and keeps recent PNGs keyed by the
// selection fingerprint, so reloading a page does not redraw every chart.
type ChartService struct {
	dashboard *app.DashboardService
	renderer  *chart.Renderer

	mu       sync.RWMutex
	cache    map[string][]byte
	order    []string
	capacity int
	logger   *internal.Logger
}

// NewChartService creates a chart service holding at most capacity images.
func NewChartService(dashboard *app.DashboardService, renderer *chart.Renderer, capacity int) *ChartService {
	if capacity <= 0 {
		capacity = 64
	}
	return &ChartService{
		dashboard: dashboard,
		renderer:  renderer,
		cache:     make(map[string][]byte),
		capacity:  capacity,
		logger:    internal.NewComponentLogger("ChartCache"),
	}
}

// Key identifies the image of section id under sel; it doubles as an ETag.
func (s *ChartService) Key(sel selection.Selection, id app.SectionID) string {
	return sel.Fingerprint().Short() + "-" + string(id)
}

// PNG returns the chart of section id for sel.
func (s *ChartService) PNG(sel selection.Selection, id app.SectionID) ([]byte, error) {
	key := s.Key(sel, id)

	s.mu.RLock()
	img, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return img, nil
	}

	spec, err := s.dashboard.Chart(sel, id)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, spec); err != nil {
		return nil, err
	}
	img = buf.Bytes()

	s.mu.Lock()
	if _, exists := s.cache[key]; !exists {
		s.cache[key] = img
		s.order = append(s.order, key)
		if len(s.order) > s.capacity {
			evict := s.order[0]
			s.order = s.order[1:]
			delete(s.cache, evict)
			s.logger.Debug("Evicted %s", evict)
		}
	}
	s.mu.Unlock()
	return img, nil
}

// Len returns the number of cached images.
func (s *ChartService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}
