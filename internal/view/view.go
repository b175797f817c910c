// Package view maps each dashboard view to the handler that builds its data.
package view

import (
	"context"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ev-priority/internal/dataset"
	"github.com/sells-group/ev-priority/internal/model"
	"github.com/sells-group/ev-priority/internal/priority"
)

// View identifies one dashboard page.
type View string

const (
	Home       View = "home"
	Prediction View = "prediction"
	Map        View = "map"
	TopHigh    View = "top-high"
	TopMedium  View = "top-medium"
	TopLow     View = "top-low"
)

// ErrUnknownView is returned for a view name with no handler.
var ErrUnknownView = eris.New("view: unknown view")

// Views returns every view in menu order.
func Views() []View {
	return []View{Home, Prediction, Map, TopHigh, TopMedium, TopLow}
}

// ParseView parses a view name case-insensitively.
func ParseView(s string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Views() {
		if v == known {
			return v, nil
		}
	}
	return "", eris.Wrapf(ErrUnknownView, "view %q", s)
}

// MapSettings holds the initial map viewport.
type MapSettings struct {
	CenterLat float64 `json:"center_lat" yaml:"center_lat"`
	CenterLon float64 `json:"center_lon" yaml:"center_lon"`
	Zoom      int     `json:"zoom" yaml:"zoom"`
}

// DefaultMapSettings centers the map on London.
func DefaultMapSettings() MapSettings {
	return MapSettings{CenterLat: 51.5074, CenterLon: -0.1278, Zoom: 10}
}

// Env is the state every handler reads from. It is built once per process
// and shared read-only.
type Env struct {
	Dataset *dataset.Dataset
	TopN    int
	Map     MapSettings
}

// ModelMetrics are the reported evaluation figures of the upstream model.
type ModelMetrics struct {
	R2   float64 `json:"r2" yaml:"r2"`
	MAE  float64 `json:"mae" yaml:"mae"`
	RMSE float64 `json:"rmse" yaml:"rmse"`
}

// Result is the data behind one rendered view. Only the fields relevant to
// the view are set.
type Result struct {
	View        View                  `json:"view" yaml:"view"`
	Title       string                `json:"title" yaml:"title"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	Label       model.Label           `json:"label,omitempty" yaml:"label,omitempty"`
	Table       []model.AggregateRow  `json:"table,omitempty" yaml:"table,omitempty"`
	Markers     []model.Marker        `json:"markers,omitempty" yaml:"markers,omitempty"`
	Map         *MapSettings          `json:"map,omitempty" yaml:"map,omitempty"`
	Summary     []priority.LabelCount `json:"summary,omitempty" yaml:"summary,omitempty"`
	Thresholds  []priority.Band       `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
	Metrics     *ModelMetrics         `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

// Handler builds the result for one view.
type Handler func(ctx context.Context, env *Env) (*Result, error)

// Registry dispatches views to handlers.
type Registry struct {
	handlers map[View]Handler
}

// NewRegistry returns a registry with a handler for every view.
func NewRegistry() *Registry {
	return &Registry{handlers: map[View]Handler{
		Home:       homeView,
		Prediction: predictionView,
		Map:        mapView,
		TopHigh:    topView(model.LabelHigh),
		TopMedium:  topView(model.LabelMedium),
		TopLow:     topView(model.LabelLow),
	}}
}

// Register adds or replaces the handler for v.
func (r *Registry) Register(v View, h Handler) {
	r.handlers[v] = h
}

// Views returns the registered views, sorted by menu order.
func (r *Registry) Views() []View {
	order := make(map[View]int)
	for i, v := range Views() {
		order[v] = i
	}
	out := make([]View, 0, len(r.handlers))
	for v := range r.handlers {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		oi, iok := order[out[i]]
		oj, jok := order[out[j]]
		if iok != jok {
			return iok
		}
		if oi != oj {
			return oi < oj
		}
		return out[i] < out[j]
	})
	return out
}

// Render runs the handler registered for v.
func (r *Registry) Render(ctx context.Context, v View, env *Env) (*Result, error) {
	h, ok := r.handlers[v]
	if !ok {
		return nil, eris.Wrapf(ErrUnknownView, "view %q", v)
	}
	if env == nil || env.Dataset == nil {
		return nil, eris.New("view: no dataset loaded")
	}
	res, err := h(ctx, env)
	if err != nil {
		return nil, eris.Wrapf(err, "view: render %s", v)
	}
	res.View = v
	return res, nil
}
