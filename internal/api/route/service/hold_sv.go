package routeService

import (
	"time"

	"golang.org/x/net/context"

	routes "CruxBackend/internal/api/route"
	"CruxBackend/internal/entity"
)

func (s *routesService) AppendHold(ctx context.Context, routeID string, req routes.AppendHoldRequest) (*routes.RouteResponse, error) {
	client, err := s.routesRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	route, err := client.Routes.GetRouteByID(ctx, routeID)
	if err != nil {
		return nil, err
	}

	photoClient, err := s.photosRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	detected, err := photoClient.DetectedHolds.GetDetectedHoldByID(ctx, req.DetectedHoldID)
	if err != nil {
		return nil, err
	}
	if detected.PhotoID != route.PhotoID {
		return nil, routes.ErrHoldWrongPhoto
	}

	holds, err := client.Holds.GetHoldsByRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return nil, routes.ErrModifyHoldSequence
	}

	hold := entity.Hold{
		ID:             id,
		RouteID:        routeID,
		DetectedHoldID: req.DetectedHoldID,
		Order:          len(holds) + 1,
		LabelX:         req.LabelX,
		LabelY:         req.LabelY,
		Note:           req.Note,
		CreatedAt:      time.Now(),
	}

	if err := client.Holds.CreateHold(ctx, hold); err != nil {
		return nil, routes.ErrModifyHoldSequence
	}

	resp := makeRouteResponse(route, append(holds, hold))
	return &resp, nil
}

func (s *routesService) UpdateHold(ctx context.Context, routeID string, order int, req routes.UpdateHoldRequest) (*routes.RouteResponse, error) {
	client, err := s.routesRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	route, err := client.Routes.GetRouteByID(ctx, routeID)
	if err != nil {
		return nil, err
	}

	holds, err := client.Holds.GetHoldsByRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}

	if order < 1 || order > len(holds) {
		return nil, routes.ErrHoldNotFound
	}

	hold := holds[order-1]
	if req.Note != nil {
		hold.Note = *req.Note
	}
	if req.LabelX != nil {
		hold.LabelX = *req.LabelX
	}
	if req.LabelY != nil {
		hold.LabelY = *req.LabelY
	}

	if err := client.Holds.UpdateHold(ctx, hold); err != nil {
		return nil, routes.ErrModifyHoldSequence
	}
	holds[order-1] = hold

	resp := makeRouteResponse(route, holds)
	return &resp, nil
}

// MoveHold reorders one hold within the sequence. Orders are unique per
// route, so the move happens in three phases inside a transaction: park
// the moving hold at order 0, shift the displaced range one slot in the
// direction that never collides, then land the hold at its new order.
func (s *routesService) MoveHold(ctx context.Context, routeID string, order, newOrder int) (*routes.RouteResponse, error) {
	client, err := s.routesRepo.NewClient(true)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = client.Rollback()
	}()

	route, err := client.Routes.GetRouteByID(ctx, routeID)
	if err != nil {
		return nil, err
	}

	holds, err := client.Holds.GetHoldsByRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}

	if order < 1 || order > len(holds) {
		return nil, routes.ErrHoldNotFound
	}
	if newOrder < 1 || newOrder > len(holds) {
		return nil, routes.ErrInvalidHoldOrder
	}
	if order == newOrder {
		resp := makeRouteResponse(route, holds)
		return &resp, nil
	}

	moving := holds[order-1]
	if err := client.Holds.SetHoldOrder(ctx, moving.ID, 0); err != nil {
		return nil, routes.ErrModifyHoldSequence
	}

	if newOrder < order {
		// Moving up: shift [newOrder, order-1] one down the wall,
		// highest first so each write lands on a freed slot.
		for i := order - 2; i >= newOrder-1; i-- {
			if err := client.Holds.SetHoldOrder(ctx, holds[i].ID, holds[i].Order+1); err != nil {
				return nil, routes.ErrModifyHoldSequence
			}
		}
	} else {
		// Moving down: shift [order+1, newOrder] one up, lowest first.
		for i := order; i <= newOrder-1; i++ {
			if err := client.Holds.SetHoldOrder(ctx, holds[i].ID, holds[i].Order-1); err != nil {
				return nil, routes.ErrModifyHoldSequence
			}
		}
	}

	if err := client.Holds.SetHoldOrder(ctx, moving.ID, newOrder); err != nil {
		return nil, routes.ErrModifyHoldSequence
	}

	reordered, err := client.Holds.GetHoldsByRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}

	if err := client.Commit(); err != nil {
		return nil, routes.ErrModifyHoldSequence
	}

	resp := makeRouteResponse(route, reordered)
	return &resp, nil
}

func (s *routesService) RemoveHold(ctx context.Context, routeID string, order int) (*routes.RouteResponse, error) {
	client, err := s.routesRepo.NewClient(true)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = client.Rollback()
	}()

	route, err := client.Routes.GetRouteByID(ctx, routeID)
	if err != nil {
		return nil, err
	}

	holds, err := client.Holds.GetHoldsByRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}

	if order < 1 || order > len(holds) {
		return nil, routes.ErrHoldNotFound
	}

	if err := client.Holds.DeleteHold(ctx, holds[order-1].ID); err != nil {
		return nil, routes.ErrModifyHoldSequence
	}

	// Close the gap so orders stay contiguous 1..N.
	for i := order; i < len(holds); i++ {
		if err := client.Holds.SetHoldOrder(ctx, holds[i].ID, holds[i].Order-1); err != nil {
			return nil, routes.ErrModifyHoldSequence
		}
	}

	remaining, err := client.Holds.GetHoldsByRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}

	if err := client.Commit(); err != nil {
		return nil, routes.ErrModifyHoldSequence
	}

	resp := makeRouteResponse(route, remaining)
	return &resp, nil
}
