package photos

import (
	"time"

	"CruxBackend/pkg/geometry"
)

type PhotoResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"image_url"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
}

type PhotoListResponse struct {
	Photos []PhotoResponse `json:"photos"`
	Total  int             `json:"total"`
}

type DetectedHoldResponse struct {
	ID            string           `json:"id"`
	Polygon       []geometry.Point `json:"polygon"`
	Center        geometry.Point   `json:"center"`
	DominantColor string           `json:"dominant_color"`
	Class         string           `json:"class"`
	Confidence    float64          `json:"confidence"`
}

type DetectedHoldListResponse struct {
	PhotoID string                 `json:"photo_id"`
	Holds   []DetectedHoldResponse `json:"holds"`
}

type DetectionResultResponse struct {
	PhotoID   string                 `json:"photo_id"`
	HoldCount int                    `json:"hold_count"`
	Holds     []DetectedHoldResponse `json:"holds"`
}

// DetectionProgress is one websocket frame emitted while the tiled
// detection pipeline runs.
type DetectionProgress struct {
	Tile  int    `json:"tile"`
	Total int    `json:"total"`
	Found int    `json:"found"`
	Done  bool   `json:"done"`
	Error string `json:"error,omitempty"`
}
