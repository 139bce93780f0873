package routes

import "CruxBackend/pkg/response"

var (
	ErrRouteNotFound      = response.NewError(404, "route not found")
	ErrHoldNotFound       = response.NewError(404, "hold not found in route")
	ErrHoldWrongPhoto     = response.NewError(400, "detected hold does not belong to the route's photo")
	ErrInvalidHoldOrder   = response.NewError(400, "hold order is out of range")
	ErrCreateRoute        = response.NewError(500, "failed to create route")
	ErrUpdateRoute        = response.NewError(500, "failed to update route")
	ErrDeleteRoute        = response.NewError(500, "failed to delete route")
	ErrModifyHoldSequence = response.NewError(500, "failed to modify hold sequence")
)
