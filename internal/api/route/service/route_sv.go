package routeService

import (
	"time"

	"golang.org/x/net/context"

	routes "CruxBackend/internal/api/route"
	"CruxBackend/internal/entity"
	"CruxBackend/pkg/label"
)

func (s *routesService) CreateRoute(ctx context.Context, req routes.CreateRouteRequest) (*routes.RouteResponse, error) {
	photoClient, err := s.photosRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	if _, err := photoClient.Photos.GetPhotoByID(ctx, req.PhotoID); err != nil {
		return nil, err
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return nil, routes.ErrCreateRoute
	}

	now := time.Now()
	route := entity.Route{
		ID:        id,
		PhotoID:   req.PhotoID,
		Title:     req.Title,
		Grade:     req.Grade,
		CreatedAt: now,
		UpdatedAt: now,
	}

	client, err := s.routesRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	if err := client.Routes.CreateRoute(ctx, route); err != nil {
		return nil, routes.ErrCreateRoute
	}

	resp := makeRouteResponse(route, nil)
	return &resp, nil
}

func (s *routesService) GetRouteByID(ctx context.Context, id string) (*routes.RouteResponse, error) {
	client, err := s.routesRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	route, err := client.Routes.GetRouteByID(ctx, id)
	if err != nil {
		return nil, err
	}

	holds, err := client.Holds.GetHoldsByRoute(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := makeRouteResponse(route, holds)
	return &resp, nil
}

func (s *routesService) GetRoutes(ctx context.Context, photoID string, page, limit int) (*routes.RouteListResponse, error) {
	client, err := s.routesRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * limit

	var list []entity.Route
	var total int
	if photoID != "" {
		list, total, err = client.Routes.GetRoutesByPhoto(ctx, photoID, limit, offset)
	} else {
		list, total, err = client.Routes.GetAllRoutes(ctx, limit, offset)
	}
	if err != nil {
		return nil, err
	}

	result := routes.RouteListResponse{
		Routes: make([]routes.RouteResponse, 0, len(list)),
		Total:  total,
	}
	for _, route := range list {
		holds, err := client.Holds.GetHoldsByRoute(ctx, route.ID)
		if err != nil {
			return nil, err
		}
		result.Routes = append(result.Routes, makeRouteResponse(route, holds))
	}

	return &result, nil
}

func (s *routesService) UpdateRoute(ctx context.Context, id string, req routes.UpdateRouteRequest) (*routes.RouteResponse, error) {
	client, err := s.routesRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	route, err := client.Routes.GetRouteByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		route.Title = req.Title
	}
	if req.Grade != "" {
		route.Grade = req.Grade
	}
	route.UpdatedAt = time.Now()

	if err := client.Routes.UpdateRoute(ctx, route); err != nil {
		return nil, routes.ErrUpdateRoute
	}

	holds, err := client.Holds.GetHoldsByRoute(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := makeRouteResponse(route, holds)
	return &resp, nil
}

func (s *routesService) DeleteRoute(ctx context.Context, id string) error {
	client, err := s.routesRepo.NewClient(true)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Rollback()
	}()

	if err := client.Holds.DeleteHoldsByRoute(ctx, id); err != nil {
		return routes.ErrDeleteRoute
	}

	if err := client.Routes.DeleteRoute(ctx, id); err != nil {
		return err
	}

	return client.Commit()
}

// makeRouteResponse assembles a route with its derived hold labels.
// Holds are expected sorted by order; labels are computed from the
// 0-based index and the sequence length, so any change to the sequence
// is reflected in the labels with no stored state.
func makeRouteResponse(route entity.Route, holds []entity.Hold) routes.RouteResponse {
	return routes.RouteResponse{
		ID:        route.ID,
		PhotoID:   route.PhotoID,
		Title:     route.Title,
		Grade:     route.Grade,
		Holds:     makeHoldResponses(holds),
		CreatedAt: route.CreatedAt,
		UpdatedAt: route.UpdatedAt,
	}
}

func makeHoldResponses(holds []entity.Hold) []routes.HoldResponse {
	result := make([]routes.HoldResponse, 0, len(holds))
	total := len(holds)

	for _, hold := range holds {
		index := hold.Order - 1
		result = append(result, routes.HoldResponse{
			ID:             hold.ID,
			DetectedHoldID: hold.DetectedHoldID,
			Order:          hold.Order,
			LabelX:         hold.LabelX,
			LabelY:         hold.LabelY,
			Note:           hold.Note,
			OrderLabel:     label.HoldOrderLabel(index, total, hold.Note),
			Label:          label.HoldLabel(index, total, hold.Note),
			CanSetStart:    label.CanSetStart(index, total),
			CanSetTop:      label.CanSetTop(index, total),
		})
	}

	return result
}
