package export

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/ev-priority/internal/model"
)

// labelColors is the marker color per label.
var labelColors = map[model.Label]string{
	model.LabelHigh:   "red",
	model.LabelMedium: "orange",
	model.LabelLow:    "green",
}

// LabelColor returns the map color for a label.
func LabelColor(l model.Label) string {
	return labelColors[l]
}

// MarkersFeatureCollection converts markers into GeoJSON point features.
// Markers without both coordinates cannot be placed and are skipped.
func MarkersFeatureCollection(markers []model.Marker) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(markers))}
	for _, m := range markers {
		if m.Latitude == nil || m.Longitude == nil {
			continue
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: geom.NewPointFlat(geom.XY, []float64{*m.Longitude, *m.Latitude}),
			Properties: map[string]interface{}{
				"borough":        m.Borough,
				"priority_label": string(m.Label),
				"priority_score": m.PriorityScore,
				"station_count":  m.StationCount,
				"color":          LabelColor(m.Label),
			},
		})
	}
	return fc
}

// MarkersGeoJSON encodes markers as a GeoJSON FeatureCollection.
func MarkersGeoJSON(markers []model.Marker) ([]byte, error) {
	data, err := json.Marshal(MarkersFeatureCollection(markers))
	if err != nil {
		return nil, eris.Wrap(err, "export: encode geojson")
	}
	return data, nil
}
