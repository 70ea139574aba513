package app

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"linedash/adapters/excel"
	"linedash/domain/dataset"
	"linedash/internal/config"
	"linedash/internal/errors"
)

// Datasets are the two tables the dashboard reads, loaded once at startup and
// never mutated afterwards.
type Datasets struct {
	Lines    *dataset.Table
	Stations *dataset.Table
}

// LoaderService reads both workbooks
type LoaderService struct {
	lines    excel.SourceConfig
	stations excel.SourceConfig
}

// NewLoaderService creates a loader for the configured files
func NewLoaderService(cfg config.DataConfig) *LoaderService {
	return &LoaderService{
		lines:    excel.LinesSource(cfg.LinesFile, cfg.SheetName),
		stations: excel.StationsSource(cfg.StationsFile, cfg.SheetName),
	}
}

// Load reads the lines and stations workbooks concurrently. Either failure
// aborts the whole load.
func (s *LoaderService) Load(ctx context.Context) (*Datasets, error) {
	startTime := time.Now()
	data := &Datasets{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		table, err := excel.LoadTable(s.lines)
		if err != nil {
			return errors.Wrapf(err, "failed to load lines from %s", s.lines.FilePath)
		}
		data.Lines = table
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		table, err := excel.LoadTable(s.stations)
		if err != nil {
			return errors.Wrapf(err, "failed to load stations from %s", s.stations.FilePath)
		}
		data.Stations = table
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Printf("[Loader] Datasets loaded in %.2fms (%d lines, %d stations)",
		float64(time.Since(startTime).Nanoseconds())/1e6, data.Lines.Len(), data.Stations.Len())
	return data, nil
}
