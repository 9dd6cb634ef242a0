package ratingservice

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRenderPlayerHistoryChart(t *testing.T) {
	tests := []struct {
		name    string
		history []HistoryPoint
	}{
		{name: "no history"},
		{name: "single tournament", history: []HistoryPoint{{Date: day(time.January, 9), Conservative: 31.2}}},
		{
			name: "newest first",
			history: []HistoryPoint{
				{Date: day(time.January, 23), Conservative: 35.4},
				{Date: day(time.January, 16), Conservative: 33.1},
				{Date: day(time.January, 9), Conservative: 31.2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := RenderPlayerHistoryChart("Alice", tt.history)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(out, pngMagic), "expected PNG output")
		})
	}
}

func TestRenderPlayerHistoryChart_DoesNotReorderInput(t *testing.T) {
	history := []HistoryPoint{
		{Date: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), Conservative: 2},
		{Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Conservative: 1},
	}
	_, err := RenderPlayerHistoryChart("Bob", history)
	require.NoError(t, err)
	assert.Equal(t, 2.0, history[0].Conservative)
}

func TestRenderPlayerHistoryChart_EmptyHistoryDrawsPlaceholder(t *testing.T) {
	out, err := RenderPlayerHistoryChart("Newcomer", nil)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}
