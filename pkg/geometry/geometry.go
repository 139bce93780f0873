package geometry

import (
	"math"
	"sort"
)

// Point is an (x, y) coordinate pair. Persisted hold data keeps points
// in percentage space (0-100 relative to image dimensions); pixel space
// is only used transiently for on-screen hit testing.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Region is an identified polygon, e.g. one detected hold shape.
type Region struct {
	ID      string
	Polygon []Point
}

// RegionMatch is a Region that contains a queried point, annotated with
// its polygon area.
type RegionMatch struct {
	ID      string
	Polygon []Point
	Area    float64
}

// PointInPolygon reports whether (x, y) lies inside the polygon, using
// the ray-casting even-odd rule. Polygons with fewer than 3 points
// contain nothing. Points exactly on an edge or vertex count as inside
// so that a tap on a hold's outline still selects it.
func PointInPolygon(x, y float64, polygon []Point) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	j := len(polygon) - 1
	for i := 0; i < len(polygon); i++ {
		xi, yi := polygon[i].X, polygon[i].Y
		xj, yj := polygon[j].X, polygon[j].Y

		if (yi > y) != (yj > y) &&
			x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}

	return inside
}

// PolygonArea computes the area of a polygon with the shoelace formula.
// The result is independent of winding order. Degenerate polygons
// (fewer than 3 points) have zero area.
func PolygonArea(polygon []Point) float64 {
	if len(polygon) < 3 {
		return 0
	}

	sum := 0.0
	for i := 0; i < len(polygon); i++ {
		next := (i + 1) % len(polygon)
		sum += polygon[i].X * polygon[next].Y
		sum -= polygon[next].X * polygon[i].Y
	}

	return math.Abs(sum) / 2
}

// RegionsAtPoint returns every region whose polygon contains (x, y),
// sorted by ascending area so the most specific shape comes first.
// Overlapping and nested detections are common (a small crimp sitting
// on a larger volume); smallest-first keeps tap selection predictable
// without z-order metadata.
func RegionsAtPoint(x, y float64, regions []Region) []RegionMatch {
	var matches []RegionMatch

	for _, region := range regions {
		if !PointInPolygon(x, y, region.Polygon) {
			continue
		}
		matches = append(matches, RegionMatch{
			ID:      region.ID,
			Polygon: region.Polygon,
			Area:    PolygonArea(region.Polygon),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Area < matches[j].Area
	})

	return matches
}

// SmallestRegionAtPoint returns the smallest region containing (x, y),
// or false when no region contains it.
func SmallestRegionAtPoint(x, y float64, regions []Region) (RegionMatch, bool) {
	matches := RegionsAtPoint(x, y, regions)
	if len(matches) == 0 {
		return RegionMatch{}, false
	}
	return matches[0], true
}
