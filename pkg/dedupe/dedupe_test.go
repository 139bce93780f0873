package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CruxBackend/pkg/geometry"
)

// box builds a BoxPrediction whose pixel center equals its percentage
// center under 100x100 image dimensions.
func box(x, y, score float64) BoxPrediction {
	return BoxPrediction{X: x, Y: y, Width: 10, Height: 10, Score: score}
}

func TestDeduplicateEmptyInput(t *testing.T) {
	assert.Empty(t, Deduplicate(nil, 2, 100, 100))
}

func TestDeduplicateSingleInput(t *testing.T) {
	pred := box(10, 10, 0.8)
	out := Deduplicate([]RawPrediction{pred}, 2, 100, 100)

	require.Len(t, out, 1)
	assert.Equal(t, pred, out[0])
}

func TestDeduplicateKeepsHigherConfidence(t *testing.T) {
	low := box(10, 10, 0.7)
	high := box(11, 11.5, 0.9)

	out := Deduplicate([]RawPrediction{low, high}, 2, 100, 100)

	require.Len(t, out, 1)
	assert.Equal(t, high, out[0])
}

func TestDeduplicateFirstWinsOnEqualConfidence(t *testing.T) {
	first := box(10, 10, 0.8)
	second := box(11, 11, 0.8)

	out := Deduplicate([]RawPrediction{first, second}, 2, 100, 100)

	require.Len(t, out, 1)
	assert.Equal(t, first, out[0])
}

func TestDeduplicateRetainsFarApartPredictions(t *testing.T) {
	preds := []RawPrediction{
		box(10, 10, 0.5),
		box(50, 50, 0.6),
		box(90, 10, 0.7),
	}

	out := Deduplicate(preds, 2, 100, 100)
	assert.Len(t, out, 3)
}

func TestDeduplicateNormalizesAgainstImageDimensions(t *testing.T) {
	// 40px apart on a 4000px-wide image is 1% apart.
	a := box(1000, 1000, 0.6)
	b := box(1040, 1000, 0.9)

	out := Deduplicate([]RawPrediction{a, b}, 2, 4000, 4000)
	require.Len(t, out, 1)
	assert.Equal(t, b, out[0])

	// Same pixel distance on a 200px image is 20% apart.
	out = Deduplicate([]RawPrediction{box(100, 100, 0.6), box(140, 100, 0.9)}, 2, 200, 200)
	assert.Len(t, out, 2)
}

func TestDeduplicatePolygonCenterIsMeanOfPoints(t *testing.T) {
	poly := PolygonPrediction{
		Points: []geometry.Point{{X: 8, Y: 8}, {X: 12, Y: 8}, {X: 12, Y: 12}, {X: 8, Y: 12}},
		Score:  0.95,
	}
	nearby := box(10, 10, 0.5)

	out := Deduplicate([]RawPrediction{nearby, poly}, 2, 100, 100)

	require.Len(t, out, 1)
	assert.Equal(t, RawPrediction(poly), out[0])
}

func TestDeduplicateDropsEmptyPolygon(t *testing.T) {
	empty := PolygonPrediction{Score: 0.99}
	valid := box(10, 10, 0.5)

	out := Deduplicate([]RawPrediction{empty, valid}, 2, 100, 100)

	require.Len(t, out, 1)
	assert.Equal(t, RawPrediction(valid), out[0])
}

func TestDeduplicateChainedNeighborsCollapsePairwise(t *testing.T) {
	// A-B and B-C are within threshold, A-C is not. B loses to A and
	// drops out of the scan, so C survives separately.
	a := box(10, 10, 0.8)
	b := box(11.5, 10, 0.6)
	c := box(13, 10, 0.7)

	out := Deduplicate([]RawPrediction{a, b, c}, 2, 100, 100)

	require.Len(t, out, 2)
	assert.Equal(t, RawPrediction(a), out[0])
	assert.Equal(t, RawPrediction(c), out[1])
}

func TestDeduplicateIdempotent(t *testing.T) {
	preds := []RawPrediction{
		box(10, 10, 0.7),
		box(11, 11.5, 0.9),
		box(50, 50, 0.4),
		box(50.5, 50.5, 0.6),
		box(90, 90, 0.8),
	}

	once := Deduplicate(preds, 2, 100, 100)
	twice := Deduplicate(once, 2, 100, 100)

	assert.Equal(t, once, twice)
}

func TestDeduplicateWinnerCollapsesAllNearbyCandidates(t *testing.T) {
	// The strongest candidate arrives last and sits between two weaker
	// ones, within threshold of both, while the weaker pair are too far
	// apart to collide with each other. Only the winner may survive,
	// and a second run over the output must change nothing.
	left := box(0, 50, 0.5)
	right := box(3.5, 50, 0.8)
	middle := box(1.8, 50, 0.9)

	out := Deduplicate([]RawPrediction{left, right, middle}, 2, 100, 100)

	require.Len(t, out, 1)
	assert.Equal(t, RawPrediction(middle), out[0])

	again := Deduplicate(out, 2, 100, 100)
	assert.Equal(t, out, again)
}
