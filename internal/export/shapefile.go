package export

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"

	"github.com/sells-group/ev-priority/internal/model"
)

// Shapefile attribute columns, in DBF order.
var shapefileFields = []shp.Field{
	shp.StringField("BOROUGH", 64),
	shp.StringField("LABEL", 8),
	shp.FloatField("SCORE", 12, 6),
	shp.NumberField("COUNT", 8),
}

// WriteShapefile writes markers as a POINT shapefile (.shp, .shx, .dbf)
// rooted at path. Markers without coordinates are skipped. It returns the
// number of points written.
func WriteShapefile(path string, markers []model.Marker) (int, error) {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, eris.Wrap(err, "export: create shapefile dir")
		}
	}

	w, err := shp.Create(base+".shp", shp.POINT)
	if err != nil {
		return 0, eris.Wrap(err, "export: create shapefile")
	}
	if err := w.SetFields(shapefileFields); err != nil {
		w.Close()
		return 0, eris.Wrap(err, "export: set shapefile fields")
	}

	var written int
	for _, m := range markers {
		if m.Latitude == nil || m.Longitude == nil {
			continue
		}
		row := int(w.Write(&shp.Point{X: *m.Longitude, Y: *m.Latitude}))
		attrs := []any{truncate(m.Borough, 64), string(m.Label), m.PriorityScore, m.StationCount}
		for field, v := range attrs {
			if err := w.WriteAttribute(row, field, v); err != nil {
				w.Close()
				return 0, eris.Wrapf(err, "export: write attribute %d for %s", field, m.Borough)
			}
		}
		written++
	}
	w.Close()
	return written, nil
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
