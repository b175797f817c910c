package view

import (
	"context"
	"fmt"

	"github.com/sells-group/ev-priority/internal/model"
	"github.com/sells-group/ev-priority/internal/priority"
)

// referenceMetrics are the published evaluation figures of the regression
// model that produced the scores.
var referenceMetrics = ModelMetrics{R2: 0.99, MAE: 0.002, RMSE: 0.002}

func homeView(_ context.Context, env *Env) (*Result, error) {
	return &Result{
		Title: "Smart EV Charging Station Placement - London",
		Description: "Decision support for identifying high-priority EV charging infrastructure " +
			"locations across Greater London, aggregated at borough level.",
		Summary: priority.Summary(env.Dataset.Records()),
	}, nil
}

func predictionView(_ context.Context, _ *Env) (*Result, error) {
	metrics := referenceMetrics
	return &Result{
		Title:       "Priority Prediction",
		Description: "Each station carries a continuous priority score predicted from spatial, infrastructure and demand features.",
		Thresholds:  priority.Thresholds(),
		Metrics:     &metrics,
	}, nil
}

func mapView(_ context.Context, env *Env) (*Result, error) {
	settings := env.Map
	if settings == (MapSettings{}) {
		settings = DefaultMapSettings()
	}
	return &Result{
		Title:   "Smart EV Charging Station Placement - London",
		Markers: priority.SpatialSummary(env.Dataset.Records()),
		Map:     &settings,
	}, nil
}

func topView(label model.Label) Handler {
	return func(_ context.Context, env *Env) (*Result, error) {
		n := env.TopN
		if n <= 0 {
			n = priority.DefaultTopN
		}
		rows := priority.TopN(env.Dataset.Records(), label, n)
		return &Result{
			Title: fmt.Sprintf("Top-%d %s Priority Boroughs", n, label),
			Label: label,
			Table: rows,
		}, nil
	}
}
