package services

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/GabeSucich/elmo-fire-bets-backend/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTimeSeriesWithoutClosedParlays(t *testing.T) {
	charts := NewChartService()

	for name, series := range map[string]map[int][]scoring.TimeSeriesDatum{
		"no gamblers":  nil,
		"empty series": {11: nil, 12: {}},
	} {
		t.Run(name, func(t *testing.T) {
			data, err := charts.RenderTimeSeries(series, map[int]string{11: "Alex", 12: "Blake"})
			require.NoError(t, err)

			img, err := png.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, chartWidth/2, img.Bounds().Dx())
			assert.Equal(t, chartHeight/2, img.Bounds().Dy())
		})
	}
}

func TestRenderTimeSeries(t *testing.T) {
	series := map[int][]scoring.TimeSeriesDatum{
		11: {{GamblerID: 11, ParlayOrder: 1, CorrectedScore: 50}, {GamblerID: 11, ParlayOrder: 2, CorrectedScore: 33.33}},
		12: {{GamblerID: 12, ParlayOrder: 1, CorrectedScore: -2}, {GamblerID: 12, ParlayOrder: 2, CorrectedScore: 48}},
		13: nil,
	}

	data, err := NewChartService().RenderTimeSeries(series, map[int]string{11: "Alex", 12: "Blake", 13: "Casey"})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, chartWidth, img.Bounds().Dx())
	assert.Equal(t, chartHeight, img.Bounds().Dy())
}
