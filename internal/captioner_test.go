package internal

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// encodePNG produces a valid PNG of the given dimensions for upload tests.
func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: uint8(x), A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestExtractFeaturesIsDeterministic(t *testing.T) {
	captioner := NewCaptioner()
	data := encodePNG(t, 64, 48)

	first := captioner.ExtractFeatures(data)
	second := captioner.ExtractFeatures(data)

	require.Equal(t, first, second)
	require.Equal(t, 64, first.Width)
	require.Equal(t, 48, first.Height)
	require.GreaterOrEqual(t, first.Mean, 0.0)
	require.LessOrEqual(t, first.Mean, 1.0)
}

func TestExtractFeaturesHandlesUndecodableData(t *testing.T) {
	captioner := NewCaptioner()

	features := captioner.ExtractFeatures([]byte("definitely not an image"))
	require.Zero(t, features.Width)
	require.Zero(t, features.Height)
	require.GreaterOrEqual(t, features.Mean, 0.0)
	require.LessOrEqual(t, features.Mean, 1.0)
}

func TestCategoryThresholds(t *testing.T) {
	captioner := NewCaptioner()

	cases := []struct {
		mean     float64
		category string
	}{
		{0.1, "nature"},
		{0.35, "animals"},
		{0.5, "people"},
		{0.7, "urban"},
		{0.8, "indoor"},
		{0.95, "objects"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.category, captioner.category(Features{Mean: tc.mean}))
	}
}

func TestGreedyCaptionStaysInCategoryPool(t *testing.T) {
	captioner := NewCaptioner()
	f := Features{Mean: 0.5}

	caption := captioner.GreedyCaption(f)
	require.NotEmpty(t, caption)

	base := caption
	for _, modifier := range modifiers {
		base = strings.TrimPrefix(base, modifier+" ")
	}
	require.Contains(t, baseCaptions["people"], base)

	// Same features, same caption.
	require.Equal(t, caption, captioner.GreedyCaption(f))
}

func TestBeamSearchCaptionDrawsFromCombinedPool(t *testing.T) {
	captioner := NewCaptioner()
	f := Features{Mean: 0.2}

	caption := captioner.BeamSearchCaption(f, 3)
	pool := append(append([]string{}, baseCaptions["nature"]...), enhancedCaptions["nature"]...)
	require.Contains(t, pool, caption)
}

func TestConfidenceScoreStaysInRange(t *testing.T) {
	captioner := NewCaptioner()

	short := captioner.ConfidenceScore(Features{Mean: 0.4}, strings.Fields("a cat"))
	long := captioner.ConfidenceScore(Features{Mean: 0.4}, strings.Fields(
		"a very descriptive caption containing exactly ten tidy words here"))

	for _, score := range []float64{short, long} {
		require.GreaterOrEqual(t, score, 0.60)
		require.LessOrEqual(t, score, 0.94)
	}
	// Captions in the 8-15 word band earn the larger bonus.
	require.Greater(t, long, short)
}
