package routes

import "time"

type CreateRouteRequest struct {
	PhotoID string `json:"photo_id" validate:"required"`
	Title   string `json:"title" validate:"required,min=1,max=256"`
	Grade   string `json:"grade" validate:"omitempty,max=16"`
}

type UpdateRouteRequest struct {
	Title string `json:"title" validate:"omitempty,min=1,max=256"`
	Grade string `json:"grade" validate:"omitempty,max=16"`
}

type AppendHoldRequest struct {
	DetectedHoldID string  `json:"detected_hold_id" validate:"required"`
	LabelX         float64 `json:"label_x" validate:"min=0,max=100"`
	LabelY         float64 `json:"label_y" validate:"min=0,max=100"`
	Note           string  `json:"note" validate:"omitempty,max=256"`
}

type UpdateHoldRequest struct {
	Note   *string  `json:"note" validate:"omitempty,max=256"`
	LabelX *float64 `json:"label_x" validate:"omitempty,min=0,max=100"`
	LabelY *float64 `json:"label_y" validate:"omitempty,min=0,max=100"`
}

type MoveHoldRequest struct {
	NewOrder int `json:"new_order" validate:"required,min=1"`
}

// HoldResponse is one sequence entry with its derived labels. Order is
// 1-based; the label fields come from the label deriver with
// index = order - 1.
type HoldResponse struct {
	ID             string  `json:"id"`
	DetectedHoldID string  `json:"detected_hold_id"`
	Order          int     `json:"order"`
	LabelX         float64 `json:"label_x"`
	LabelY         float64 `json:"label_y"`
	Note           string  `json:"note,omitempty"`
	OrderLabel     string  `json:"order_label"`
	Label          string  `json:"label"`
	CanSetStart    bool    `json:"can_set_start"`
	CanSetTop      bool    `json:"can_set_top"`
}

type RouteResponse struct {
	ID        string         `json:"id"`
	PhotoID   string         `json:"photo_id"`
	Title     string         `json:"title"`
	Grade     string         `json:"grade,omitempty"`
	Holds     []HoldResponse `json:"holds"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type RouteListResponse struct {
	Routes []RouteResponse `json:"routes"`
	Total  int             `json:"total"`
}
