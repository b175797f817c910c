package main

import (
	"context"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ev-priority/internal/config"
	"github.com/sells-group/ev-priority/internal/dataset"
	"github.com/sells-group/ev-priority/internal/store"
	"github.com/sells-group/ev-priority/internal/view"
)

// newLoader builds a dataset loader from the source settings.
func newLoader(c *config.Config) (*dataset.Loader, error) {
	format, err := dataset.ParseFormat(c.Source.Format)
	if err != nil {
		return nil, eris.Wrap(err, "source format")
	}
	return dataset.NewLoader(dataset.Options{
		Format: format,
		Sheet:  c.Source.Sheet,
		ReadDB: store.ReadRecords,
	}), nil
}

// loadEnv loads the configured source into a view environment. The cache is
// returned so long-running commands can keep reloading through it.
func loadEnv(ctx context.Context, c *config.Config) (*view.Env, *dataset.Cache, error) {
	loader, err := newLoader(c)
	if err != nil {
		return nil, nil, err
	}
	cache := dataset.NewCache(loader, nil)
	ds, err := cache.Load(ctx, c.Source.Path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "load source")
	}
	return &view.Env{
		Dataset: ds,
		TopN:    c.Report.TopN,
		Map: view.MapSettings{
			CenterLat: c.Map.CenterLat,
			CenterLon: c.Map.CenterLon,
			Zoom:      c.Map.Zoom,
		},
	}, cache, nil
}

// openOutput returns stdout when path is empty.
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "create output file %s", path)
	}
	return f, f.Close, nil
}
