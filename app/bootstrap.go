package app

import (
	"context"

	"linedash/internal/config"
	"linedash/internal/errors"
)

// OptionsFromConfig maps the dashboard config section onto page options.
func OptionsFromConfig(cfg config.DashboardConfig) Options {
	return Options{
		StationSectionEnabled: cfg.StationSectionEnabled,
		DataGridEnabled:       cfg.DataGridEnabled,
		TopN:                  cfg.TopN,
		GridPageSize:          cfg.GridPageSize,
	}
}

// LoadDashboard loads both workbooks and builds the dashboard over them.
// Every entry point starts here; a failure means nothing may be served.
func LoadDashboard(ctx context.Context, cfg *config.Config) (*DashboardService, error) {
	data, err := NewLoaderService(cfg.Data).Load(ctx)
	if err != nil {
		return nil, err
	}
	dashboard, err := NewDashboardService(data, OptionsFromConfig(cfg.Dashboard))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build dashboard")
	}
	return dashboard, nil
}
