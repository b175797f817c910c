package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Label
	}{
		{"high", LabelHigh},
		{"High", LabelHigh},
		{" MEDIUM ", LabelMedium},
		{"low", LabelLow},
	}
	for _, tt := range tests {
		got, err := ParseLabel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseLabel("urgent")
	assert.Error(t, err)
}

func TestLabelRank(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []Label{LabelHigh, LabelMedium, LabelLow}, Labels())
	for i, l := range Labels() {
		assert.Equal(t, i, l.Rank())
		assert.True(t, l.Valid())
	}
	assert.Equal(t, -1, Label("Critical").Rank())
	assert.False(t, Label("").Valid())
}

func TestSuggestedAction(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Immediate infrastructure expansion", SuggestedAction(LabelHigh))
	assert.Equal(t, "Monitor and phased upgrades", SuggestedAction(LabelMedium))
	assert.Equal(t, "No immediate action required", SuggestedAction(LabelLow))
	assert.Empty(t, SuggestedAction(Label("x")))
}

func TestAggregateRow_Rounded(t *testing.T) {
	t.Parallel()

	row := AggregateRow{AvgPriorityScore: 0.123456}
	assert.InDelta(t, 0.123, row.Rounded(), 1e-12)
	assert.InDelta(t, 0.123456, row.AvgPriorityScore, 1e-12)

	row = AggregateRow{AvgPriorityScore: 0.19951}
	assert.InDelta(t, 0.2, row.Rounded(), 1e-9)
}

func TestRecord_HasCoordinates(t *testing.T) {
	t.Parallel()

	assert.True(t, Record{Latitude: Float(51.5), Longitude: Float(-0.1)}.HasCoordinates())
	assert.False(t, Record{Latitude: Float(51.5)}.HasCoordinates())
	assert.False(t, Record{}.HasCoordinates())
}
