package dedupe

import (
	"math"

	"CruxBackend/pkg/geometry"
)

// RawPrediction is one unprocessed detection candidate from the hold
// detector. It is a closed union: either a PolygonPrediction (instance
// segmentation output) or a BoxPrediction (bounding-box fallback), so
// center derivation is exhaustive over both shapes.
type RawPrediction interface {
	// Confidence is the detector's score in [0, 1].
	Confidence() float64

	// center returns the candidate's center in the detector's pixel
	// space. ok is false when the geometry cannot yield a center.
	center() (geometry.Point, bool)
}

// PolygonPrediction is a segmentation candidate with explicit outline
// points in pixel space.
type PolygonPrediction struct {
	Points []geometry.Point
	Score  float64
}

func (p PolygonPrediction) Confidence() float64 { return p.Score }

func (p PolygonPrediction) center() (geometry.Point, bool) {
	if len(p.Points) == 0 {
		return geometry.Point{}, false
	}

	var sumX, sumY float64
	for _, pt := range p.Points {
		sumX += pt.X
		sumY += pt.Y
	}
	n := float64(len(p.Points))

	return geometry.Point{X: sumX / n, Y: sumY / n}, true
}

// BoxPrediction is a bounding-box candidate: (X, Y) is the box center
// in pixel space.
type BoxPrediction struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
	Score  float64
}

func (b BoxPrediction) Confidence() float64 { return b.Score }

func (b BoxPrediction) center() (geometry.Point, bool) {
	return geometry.Point{X: b.X, Y: b.Y}, true
}

// Deduplicate collapses near-duplicate predictions, keeping the higher
// confidence candidate of any pair whose centers fall within
// thresholdPercent of each other in percentage space. Centers are
// normalized against the image dimensions before comparison so the
// threshold is resolution independent.
//
// The reduction is an all-pairs scan with keep flags: every
// within-threshold pair resolves to the higher-confidence member, a
// strictly higher confidence being needed to displace an
// earlier-positioned prediction. A displaced prediction takes no
// further part in the scan, so chained near-duplicates (A close to B,
// B close to C, A far from C) collapse pairwise in input order rather
// than as one global cluster. Survivors are pairwise farther apart
// than the threshold, which makes the reduction idempotent. Output
// order is not part of the contract.
//
// Surviving predictions are returned by identity, not copied.
func Deduplicate(predictions []RawPrediction, thresholdPercent, imageWidth, imageHeight float64) []RawPrediction {
	valid := make([]RawPrediction, 0, len(predictions))
	centers := make([]geometry.Point, 0, len(predictions))

	for _, pred := range predictions {
		center, ok := pred.center()
		if !ok {
			continue
		}

		valid = append(valid, pred)
		centers = append(centers, geometry.Point{
			X: center.X / imageWidth * 100,
			Y: center.Y / imageHeight * 100,
		})
	}

	keep := make([]bool, len(valid))
	for i := range keep {
		keep[i] = true
	}

	for i := range valid {
		if !keep[i] {
			continue
		}
		for j := i + 1; j < len(valid); j++ {
			if !keep[j] {
				continue
			}
			if distance(centers[i], centers[j]) > thresholdPercent {
				continue
			}
			if valid[j].Confidence() > valid[i].Confidence() {
				keep[i] = false
				break
			}
			keep[j] = false
		}
	}

	kept := make([]RawPrediction, 0, len(valid))
	for i, pred := range valid {
		if keep[i] {
			kept = append(kept, pred)
		}
	}

	return kept
}

func distance(a, b geometry.Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
