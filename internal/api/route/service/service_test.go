package routeService

import (
	"fmt"
	"mime/multipart"
	"sort"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"

	photos "CruxBackend/internal/api/photo"
	photoRepository "CruxBackend/internal/api/photo/repository"
	routes "CruxBackend/internal/api/route"
	routeRepository "CruxBackend/internal/api/route/repository"
	"CruxBackend/internal/entity"
)

type memRouteStore struct {
	routes map[string]entity.Route
	holds  map[string]entity.Hold
}

func newMemRouteStore() *memRouteStore {
	return &memRouteStore{
		routes: make(map[string]entity.Route),
		holds:  make(map[string]entity.Hold),
	}
}

func (m *memRouteStore) NewClient(tx bool) (routeRepository.Client, error) {
	return routeRepository.Client{
		Routes:   m,
		Holds:    m,
		Commit:   func() error { return nil },
		Rollback: func() error { return nil },
	}, nil
}

func (m *memRouteStore) CreateRoute(ctx context.Context, route entity.Route) error {
	m.routes[route.ID] = route
	return nil
}

func (m *memRouteStore) GetRouteByID(ctx context.Context, id string) (entity.Route, error) {
	route, ok := m.routes[id]
	if !ok {
		return entity.Route{}, routes.ErrRouteNotFound
	}
	return route, nil
}

func (m *memRouteStore) GetRoutesByPhoto(ctx context.Context, photoID string, limit, offset int) ([]entity.Route, int, error) {
	var list []entity.Route
	for _, route := range m.routes {
		if route.PhotoID == photoID {
			list = append(list, route)
		}
	}
	return list, len(list), nil
}

func (m *memRouteStore) GetAllRoutes(ctx context.Context, limit, offset int) ([]entity.Route, int, error) {
	var list []entity.Route
	for _, route := range m.routes {
		list = append(list, route)
	}
	return list, len(list), nil
}

func (m *memRouteStore) UpdateRoute(ctx context.Context, route entity.Route) error {
	if _, ok := m.routes[route.ID]; !ok {
		return routes.ErrRouteNotFound
	}
	m.routes[route.ID] = route
	return nil
}

func (m *memRouteStore) DeleteRoute(ctx context.Context, id string) error {
	if _, ok := m.routes[id]; !ok {
		return routes.ErrRouteNotFound
	}
	delete(m.routes, id)
	return nil
}

func (m *memRouteStore) CreateHold(ctx context.Context, hold entity.Hold) error {
	m.holds[hold.ID] = hold
	return nil
}

func (m *memRouteStore) GetHoldsByRoute(ctx context.Context, routeID string) ([]entity.Hold, error) {
	var list []entity.Hold
	for _, hold := range m.holds {
		if hold.RouteID == routeID {
			list = append(list, hold)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Order < list[j].Order })
	return list, nil
}

func (m *memRouteStore) UpdateHold(ctx context.Context, hold entity.Hold) error {
	if _, ok := m.holds[hold.ID]; !ok {
		return routes.ErrHoldNotFound
	}
	m.holds[hold.ID] = hold
	return nil
}

func (m *memRouteStore) DeleteHold(ctx context.Context, id string) error {
	if _, ok := m.holds[id]; !ok {
		return routes.ErrHoldNotFound
	}
	delete(m.holds, id)
	return nil
}

func (m *memRouteStore) SetHoldOrder(ctx context.Context, id string, order int) error {
	hold, ok := m.holds[id]
	if !ok {
		return routes.ErrHoldNotFound
	}
	hold.Order = order
	m.holds[id] = hold
	return nil
}

func (m *memRouteStore) DeleteHoldsByRoute(ctx context.Context, routeID string) error {
	for id, hold := range m.holds {
		if hold.RouteID == routeID {
			delete(m.holds, id)
		}
	}
	return nil
}

type memPhotoStore struct {
	photos   map[string]entity.WallPhoto
	detected map[string]entity.DetectedHold
}

func newMemPhotoStore() *memPhotoStore {
	return &memPhotoStore{
		photos:   make(map[string]entity.WallPhoto),
		detected: make(map[string]entity.DetectedHold),
	}
}

func (m *memPhotoStore) NewClient(tx bool) (photoRepository.Client, error) {
	return photoRepository.Client{
		Photos:        m,
		DetectedHolds: m,
		Commit:        func() error { return nil },
		Rollback:      func() error { return nil },
	}, nil
}

func (m *memPhotoStore) CreatePhoto(ctx context.Context, photo entity.WallPhoto) error {
	m.photos[photo.ID] = photo
	return nil
}

func (m *memPhotoStore) GetPhotoByID(ctx context.Context, id string) (entity.WallPhoto, error) {
	photo, ok := m.photos[id]
	if !ok {
		return entity.WallPhoto{}, photos.ErrPhotoNotFound
	}
	return photo, nil
}

func (m *memPhotoStore) GetAllPhotos(ctx context.Context, limit, offset int) ([]entity.WallPhoto, int, error) {
	return nil, 0, nil
}

func (m *memPhotoStore) DeletePhoto(ctx context.Context, id string) error {
	delete(m.photos, id)
	return nil
}

func (m *memPhotoStore) CreateDetectedHold(ctx context.Context, hold entity.DetectedHold) error {
	m.detected[hold.ID] = hold
	return nil
}

func (m *memPhotoStore) GetDetectedHoldByID(ctx context.Context, id string) (entity.DetectedHold, error) {
	hold, ok := m.detected[id]
	if !ok {
		return entity.DetectedHold{}, photos.ErrDetectedHoldNotFound
	}
	return hold, nil
}

func (m *memPhotoStore) GetDetectedHoldsByPhoto(ctx context.Context, photoID string) ([]entity.DetectedHold, error) {
	var list []entity.DetectedHold
	for _, hold := range m.detected {
		if hold.PhotoID == photoID {
			list = append(list, hold)
		}
	}
	return list, nil
}

func (m *memPhotoStore) DeleteDetectedHoldsByPhoto(ctx context.Context, photoID string) error {
	return nil
}

type seqUtils struct {
	n int
}

func (u *seqUtils) NewULIDFromTimestamp(t time.Time) (string, error) {
	u.n++
	return fmt.Sprintf("id-%03d", u.n), nil
}

func (u *seqUtils) ValidateImageFile(file *multipart.FileHeader) error { return nil }

func (u *seqUtils) ReadMultipartFile(file *multipart.FileHeader) ([]byte, error) {
	return nil, nil
}

func newTestService() (IRoutesService, *memRouteStore, *memPhotoStore) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	routeStore := newMemRouteStore()
	photoStore := newMemPhotoStore()
	svc := NewRoutesService(log, routeStore, photoStore, &seqUtils{})
	return svc, routeStore, photoStore
}

func seedPhoto(store *memPhotoStore, id string) {
	store.photos[id] = entity.WallPhoto{ID: id, Name: "wall.jpg", Width: 4000, Height: 3000}
}

func seedDetectedHold(store *memPhotoStore, id, photoID string) {
	store.detected[id] = entity.DetectedHold{ID: id, PhotoID: photoID, CenterX: 50, CenterY: 50, Class: "hold"}
}

func appendHolds(t *testing.T, svc IRoutesService, routeID string, detectedIDs ...string) *routes.RouteResponse {
	t.Helper()

	var resp *routes.RouteResponse
	var err error
	for _, id := range detectedIDs {
		resp, err = svc.AppendHold(context.Background(), routeID, routes.AppendHoldRequest{
			DetectedHoldID: id,
			LabelX:         10,
			LabelY:         20,
		})
		require.NoError(t, err)
	}
	return resp
}

func TestCreateRoute(t *testing.T) {
	svc, _, photoStore := newTestService()
	seedPhoto(photoStore, "photo-1")

	resp, err := svc.CreateRoute(context.Background(), routes.CreateRouteRequest{
		PhotoID: "photo-1",
		Title:   "Orange traverse",
		Grade:   "6a+",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "photo-1", resp.PhotoID)
	assert.Equal(t, "Orange traverse", resp.Title)
	assert.Equal(t, "6a+", resp.Grade)
	assert.Empty(t, resp.Holds)
}

func TestCreateRouteUnknownPhoto(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateRoute(context.Background(), routes.CreateRouteRequest{
		PhotoID: "missing",
		Title:   "Ghost route",
	})
	assert.ErrorIs(t, err, photos.ErrPhotoNotFound)
}

func TestAppendHoldOrdersAndLabels(t *testing.T) {
	svc, _, photoStore := newTestService()
	seedPhoto(photoStore, "photo-1")
	for i := 1; i <= 4; i++ {
		seedDetectedHold(photoStore, fmt.Sprintf("dh-%d", i), "photo-1")
	}

	created, err := svc.CreateRoute(context.Background(), routes.CreateRouteRequest{PhotoID: "photo-1", Title: "Slab"})
	require.NoError(t, err)

	resp := appendHolds(t, svc, created.ID, "dh-1", "dh-2", "dh-3", "dh-4")
	require.Len(t, resp.Holds, 4)

	wantOrderLabels := []string{"START", "2", "3", "TOP"}
	for i, hold := range resp.Holds {
		assert.Equal(t, i+1, hold.Order)
		assert.Equal(t, wantOrderLabels[i], hold.OrderLabel)
	}

	assert.True(t, resp.Holds[0].CanSetStart)
	assert.True(t, resp.Holds[1].CanSetStart)
	assert.False(t, resp.Holds[2].CanSetStart)
	assert.True(t, resp.Holds[3].CanSetTop)
	assert.True(t, resp.Holds[2].CanSetTop)
	assert.False(t, resp.Holds[0].CanSetTop)
}

func TestAppendHoldDualStart(t *testing.T) {
	svc, _, photoStore := newTestService()
	seedPhoto(photoStore, "photo-1")
	for i := 1; i <= 3; i++ {
		seedDetectedHold(photoStore, fmt.Sprintf("dh-%d", i), "photo-1")
	}

	created, err := svc.CreateRoute(context.Background(), routes.CreateRouteRequest{PhotoID: "photo-1", Title: "Dual"})
	require.NoError(t, err)

	appendHolds(t, svc, created.ID, "dh-1", "dh-3")
	resp, err := svc.AppendHold(context.Background(), created.ID, routes.AppendHoldRequest{
		DetectedHoldID: "dh-2",
	})
	require.NoError(t, err)

	note := "SX left hand"
	resp, err = svc.UpdateHold(context.Background(), created.ID, 2, routes.UpdateHoldRequest{Note: &note})
	require.NoError(t, err)

	require.Len(t, resp.Holds, 3)
	assert.Equal(t, "START", resp.Holds[0].OrderLabel)
	assert.Equal(t, "START SX left hand", resp.Holds[1].OrderLabel)
	assert.Equal(t, "TOP", resp.Holds[2].OrderLabel)
}

func TestAppendHoldWrongPhoto(t *testing.T) {
	svc, _, photoStore := newTestService()
	seedPhoto(photoStore, "photo-1")
	seedPhoto(photoStore, "photo-2")
	seedDetectedHold(photoStore, "dh-other", "photo-2")

	created, err := svc.CreateRoute(context.Background(), routes.CreateRouteRequest{PhotoID: "photo-1", Title: "Slab"})
	require.NoError(t, err)

	_, err = svc.AppendHold(context.Background(), created.ID, routes.AppendHoldRequest{DetectedHoldID: "dh-other"})
	assert.ErrorIs(t, err, routes.ErrHoldWrongPhoto)
}

func TestUpdateHoldPartial(t *testing.T) {
	svc, _, photoStore := newTestService()
	seedPhoto(photoStore, "photo-1")
	seedDetectedHold(photoStore, "dh-1", "photo-1")

	created, err := svc.CreateRoute(context.Background(), routes.CreateRouteRequest{PhotoID: "photo-1", Title: "Slab"})
	require.NoError(t, err)
	appendHolds(t, svc, created.ID, "dh-1")

	note := "crimp"
	resp, err := svc.UpdateHold(context.Background(), created.ID, 1, routes.UpdateHoldRequest{Note: &note})
	require.NoError(t, err)
	assert.Equal(t, "crimp", resp.Holds[0].Note)
	assert.Equal(t, 10.0, resp.Holds[0].LabelX)
	assert.Equal(t, 20.0, resp.Holds[0].LabelY)

	x := 55.5
	resp, err = svc.UpdateHold(context.Background(), created.ID, 1, routes.UpdateHoldRequest{LabelX: &x})
	require.NoError(t, err)
	assert.Equal(t, "crimp", resp.Holds[0].Note)
	assert.Equal(t, 55.5, resp.Holds[0].LabelX)

	_, err = svc.UpdateHold(context.Background(), created.ID, 2, routes.UpdateHoldRequest{Note: &note})
	assert.ErrorIs(t, err, routes.ErrHoldNotFound)
}

func TestMoveHold(t *testing.T) {
	svc, _, photoStore := newTestService()
	seedPhoto(photoStore, "photo-1")
	for i := 1; i <= 5; i++ {
		seedDetectedHold(photoStore, fmt.Sprintf("dh-%d", i), "photo-1")
	}

	created, err := svc.CreateRoute(context.Background(), routes.CreateRouteRequest{PhotoID: "photo-1", Title: "Slab"})
	require.NoError(t, err)
	appendHolds(t, svc, created.ID, "dh-1", "dh-2", "dh-3", "dh-4", "dh-5")

	// Move up: 4 -> 2.
	resp, err := svc.MoveHold(context.Background(), created.ID, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"dh-1", "dh-4", "dh-2", "dh-3", "dh-5"}, holdSequence(resp))

	// Move down: 2 -> 5.
	resp, err = svc.MoveHold(context.Background(), created.ID, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"dh-1", "dh-2", "dh-3", "dh-5", "dh-4"}, holdSequence(resp))

	for i, hold := range resp.Holds {
		assert.Equal(t, i+1, hold.Order)
	}
}

func TestMoveHoldNoop(t *testing.T) {
	svc, _, photoStore := newTestService()
	seedPhoto(photoStore, "photo-1")
	seedDetectedHold(photoStore, "dh-1", "photo-1")
	seedDetectedHold(photoStore, "dh-2", "photo-1")

	created, err := svc.CreateRoute(context.Background(), routes.CreateRouteRequest{PhotoID: "photo-1", Title: "Slab"})
	require.NoError(t, err)
	appendHolds(t, svc, created.ID, "dh-1", "dh-2")

	resp, err := svc.MoveHold(context.Background(), created.ID, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"dh-1", "dh-2"}, holdSequence(resp))
}

func TestMoveHoldOutOfRange(t *testing.T) {
	svc, _, photoStore := newTestService()
	seedPhoto(photoStore, "photo-1")
	seedDetectedHold(photoStore, "dh-1", "photo-1")

	created, err := svc.CreateRoute(context.Background(), routes.CreateRouteRequest{PhotoID: "photo-1", Title: "Slab"})
	require.NoError(t, err)
	appendHolds(t, svc, created.ID, "dh-1")

	_, err = svc.MoveHold(context.Background(), created.ID, 3, 1)
	assert.ErrorIs(t, err, routes.ErrHoldNotFound)

	_, err = svc.MoveHold(context.Background(), created.ID, 1, 7)
	assert.ErrorIs(t, err, routes.ErrInvalidHoldOrder)
}

func TestRemoveHoldCompactsOrders(t *testing.T) {
	svc, _, photoStore := newTestService()
	seedPhoto(photoStore, "photo-1")
	for i := 1; i <= 4; i++ {
		seedDetectedHold(photoStore, fmt.Sprintf("dh-%d", i), "photo-1")
	}

	created, err := svc.CreateRoute(context.Background(), routes.CreateRouteRequest{PhotoID: "photo-1", Title: "Slab"})
	require.NoError(t, err)
	appendHolds(t, svc, created.ID, "dh-1", "dh-2", "dh-3", "dh-4")

	resp, err := svc.RemoveHold(context.Background(), created.ID, 2)
	require.NoError(t, err)
	require.Len(t, resp.Holds, 3)
	assert.Equal(t, []string{"dh-1", "dh-3", "dh-4"}, holdSequence(resp))

	// Labels recompute against the shorter sequence.
	assert.Equal(t, "START", resp.Holds[0].OrderLabel)
	assert.Equal(t, "2", resp.Holds[1].OrderLabel)
	assert.Equal(t, "TOP", resp.Holds[2].OrderLabel)
	for i, hold := range resp.Holds {
		assert.Equal(t, i+1, hold.Order)
	}
}

func TestDeleteRouteRemovesHolds(t *testing.T) {
	svc, routeStore, photoStore := newTestService()
	seedPhoto(photoStore, "photo-1")
	seedDetectedHold(photoStore, "dh-1", "photo-1")

	created, err := svc.CreateRoute(context.Background(), routes.CreateRouteRequest{PhotoID: "photo-1", Title: "Slab"})
	require.NoError(t, err)
	appendHolds(t, svc, created.ID, "dh-1")

	require.NoError(t, svc.DeleteRoute(context.Background(), created.ID))
	assert.Empty(t, routeStore.routes)
	assert.Empty(t, routeStore.holds)

	_, err = svc.GetRouteByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, routes.ErrRouteNotFound)
}

func holdSequence(resp *routes.RouteResponse) []string {
	ids := make([]string, 0, len(resp.Holds))
	for _, hold := range resp.Holds {
		ids = append(ids, hold.DetectedHoldID)
	}
	return ids
}
