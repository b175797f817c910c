package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ev-priority/internal/config"
	"github.com/sells-group/ev-priority/internal/store"
)

const stationsCSV = `borough,latitude,longitude,priority_score
Camden,51.54,-0.14,0.20
Camden,51.55,-0.15,0.10
Brent,51.56,-0.27,0.30
Hackney,51.54,-0.05,not-a-number
Bromley,51.40,0.01,0.03
`

// setupWorkdir moves into an empty directory holding a predictions file so
// no stray config.yaml is picked up.
func setupWorkdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck

	path := filepath.Join(dir, "stations.csv")
	require.NoError(t, os.WriteFile(path, []byte(stationsCSV), 0o644))
	return path
}

func resetFlags() {
	sourcePath = ""
	topLabel, topLimit, topFormat, topOutput = "", 0, "table", ""
	mapFormat, mapOutput = "geojson", ""
	viewFormat = "yaml"
	importDB = ""
	servePort = 0
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestClassifyCommand(t *testing.T) {
	setupWorkdir(t)

	out, err := execute(t, "classify", "0.15", "0.08", "0.079999")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "High")
	assert.Contains(t, lines[1], "Medium")
	assert.Contains(t, lines[2], "Low")

	_, err = execute(t, "classify", "abc")
	assert.Error(t, err)
}

func TestTopCommand_CSV(t *testing.T) {
	path := setupWorkdir(t)

	out, err := execute(t, "--source", path, "top", "--label", "high", "--format", "csv")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Brent", "0.300", "1"}, records[1][:3])
	assert.Equal(t, []string{"Camden", "0.200", "1"}, records[2][:3])
}

func TestTopCommand_OutputFile(t *testing.T) {
	path := setupWorkdir(t)
	outPath := filepath.Join(filepath.Dir(path), "low.json")

	out, err := execute(t, "--source", path, "top", "--label", "low", "--format", "json", "--output", outPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Bromley", rows[0]["borough"])
}

func TestTopCommand_Errors(t *testing.T) {
	path := setupWorkdir(t)
	missing := filepath.Join(filepath.Dir(path), "missing.csv")

	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"unknown label", []string{"--source", path, "top", "--label", "urgent"}, ""},
		{"unknown format", []string{"--source", path, "top", "--label", "high", "--format", "xml"}, ""},
		{"missing source", []string{"--source", missing, "top", "--label", "high"}, ""},
		{"negative limit", []string{"--source", path, "top", "--label", "high", "--limit=-1"}, "--limit must be >= 0"},
		{"negative limit separate value", []string{"--source", path, "top", "--label", "low", "--limit", "-5"}, "got -5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestTopCommand_Limit(t *testing.T) {
	path := setupWorkdir(t)

	tests := []struct {
		limit    string
		wantRows int
	}{
		{"0", 2},
		{"1", 1},
		{"50", 2},
	}
	for _, tt := range tests {
		t.Run(tt.limit, func(t *testing.T) {
			out, err := execute(t, "--source", path, "top", "--label", "high", "--format", "csv", "--limit", tt.limit)
			require.NoError(t, err)

			records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
			require.NoError(t, err)
			assert.Len(t, records, tt.wantRows+1)
			assert.Equal(t, "Brent", records[1][0])
		})
	}
}

func TestMapCommand_GeoJSON(t *testing.T) {
	path := setupWorkdir(t)

	out, err := execute(t, "--source", path, "map")
	require.NoError(t, err)

	var fc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	// Camden/High, Camden/Medium, Brent/High, Bromley/Low.
	assert.Len(t, fc.Features, 4)
}

func TestMapCommand_Shapefile(t *testing.T) {
	path := setupWorkdir(t)
	dir := filepath.Dir(path)

	_, err := execute(t, "--source", path, "map", "--format", "shp")
	assert.Error(t, err, "shapefile output needs --output")

	shpPath := filepath.Join(dir, "markers.shp")
	_, err = execute(t, "--source", path, "map", "--format", "shp", "--output", shpPath)
	require.NoError(t, err)
	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		_, err := os.Stat(filepath.Join(dir, "markers"+ext))
		assert.NoError(t, err, ext)
	}
}

func TestMapCommand_Table(t *testing.T) {
	path := setupWorkdir(t)

	out, err := execute(t, "--source", path, "map", "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "BOROUGH")
	assert.Contains(t, out, "Bromley")

	_, err = execute(t, "--source", path, "map", "--format", "kml")
	assert.Error(t, err)
}

func TestViewCommand(t *testing.T) {
	path := setupWorkdir(t)

	out, err := execute(t, "--source", path, "view", "prediction", "--format", "json")
	require.NoError(t, err)
	var res struct {
		View       string           `json:"view"`
		Thresholds []map[string]any `json:"thresholds"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "prediction", res.View)
	assert.Len(t, res.Thresholds, 3)

	out, err = execute(t, "--source", path, "view", "top-high")
	require.NoError(t, err)
	assert.Contains(t, out, "view: top-high")
	assert.Contains(t, out, "borough: Brent")

	_, err = execute(t, "--source", path, "view", "settings")
	assert.Error(t, err)
}

func TestImportCommand_RoundTrip(t *testing.T) {
	path := setupWorkdir(t)
	dbPath := filepath.Join(filepath.Dir(path), "records.db")

	_, err := execute(t, "--source", path, "import", "--db", dbPath)
	require.NoError(t, err)

	st, err := store.NewSQLite(dbPath)
	require.NoError(t, err)
	n, err := st.CountRecords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	require.NoError(t, st.Close())

	// The database is itself a valid source.
	out, err := execute(t, "--source", dbPath, "top", "--label", "high", "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Brent,0.300,1")
}

func TestBuildServer(t *testing.T) {
	path := setupWorkdir(t)

	c := &config.Config{}
	c.Source.Path = path
	c.Report.TopN = 10
	c.Map.Zoom = 10
	c.Server.Metrics = true

	srv, err := buildServer(context.Background(), c)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"records":4`)

	// Editing the source is picked up on the next request.
	require.NoError(t, os.WriteFile(path, []byte(stationsCSV+"Ealing,51.51,-0.30,0.40\n"), 0o644))
	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Contains(t, rr.Body.String(), `"records":5`)
}
