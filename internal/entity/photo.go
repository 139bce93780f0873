package entity

import (
	"time"

	"CruxBackend/pkg/geometry"
)

// WallPhoto is one uploaded photograph of a climbing wall. Width and
// Height are the stored image's pixel dimensions, kept so percentage
// space coordinates can be mapped back to pixels without re-decoding.
type WallPhoto struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	ImageURL  string    `db:"image_url"`
	Width     int       `db:"width"`
	Height    int       `db:"height"`
	CreatedAt time.Time `db:"created_at"`
}

// DetectedHold is a canonical, deduplicated hold shape on a photo.
// Polygon points and the center are in percentage space (0-100 of the
// image dimensions).
type DetectedHold struct {
	ID            string
	PhotoID       string
	Polygon       []geometry.Point
	CenterX       float64
	CenterY       float64
	DominantColor string
	Class         string
	Confidence    float64
	CreatedAt     time.Time
}
