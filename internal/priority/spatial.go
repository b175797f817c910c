package priority

import "github.com/sells-group/ev-priority/internal/model"

// SpatialSummary returns one marker per (borough, label) pair with the mean
// coordinates and mean score of its records. Missing coordinates are left out
// of the means; a group with no coordinates gets nil lat/lon.
func SpatialSummary(records []model.Record) []model.Marker {
	groups := groupRecords(records, byBoroughAndLabel)
	markers := make([]model.Marker, 0, len(groups))
	for _, g := range groups {
		markers = append(markers, model.Marker{
			Borough:       g.key.borough,
			Label:         g.key.label,
			Latitude:      meanOf(g.latSum, g.latN),
			Longitude:     meanOf(g.lonSum, g.lonN),
			PriorityScore: g.meanScore(),
			StationCount:  g.count,
		})
	}
	return markers
}
