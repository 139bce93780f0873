package entity

import "time"

// Route is an ordered sequence of holds on one wall photo, plus
// descriptive metadata.
type Route struct {
	ID        string    `db:"id"`
	PhotoID   string    `db:"photo_id"`
	Title     string    `db:"title"`
	Grade     string    `db:"grade"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Hold is one placement of a detected hold within a route's sequence.
// Order is 1-based and contiguous within the route; label derivation
// works on index = Order - 1. LabelX/LabelY anchor the on-image text
// callout in percentage space, independent of the hold's own center.
// The same DetectedHoldID may appear in a route more than once, each
// occurrence with its own Order and anchor.
type Hold struct {
	ID             string    `db:"id"`
	RouteID        string    `db:"route_id"`
	DetectedHoldID string    `db:"detected_hold_id"`
	Order          int       `db:"hold_order"`
	LabelX         float64   `db:"label_x"`
	LabelY         float64   `db:"label_y"`
	Note           string    `db:"note"`
	CreatedAt      time.Time `db:"created_at"`
}
