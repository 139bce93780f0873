package routeService

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	photoRepository "CruxBackend/internal/api/photo/repository"
	routes "CruxBackend/internal/api/route"
	routeRepository "CruxBackend/internal/api/route/repository"
	"CruxBackend/pkg/utils"
)

type IRoutesService interface {
	CreateRoute(ctx context.Context, req routes.CreateRouteRequest) (*routes.RouteResponse, error)
	GetRouteByID(ctx context.Context, id string) (*routes.RouteResponse, error)
	GetRoutes(ctx context.Context, photoID string, page, limit int) (*routes.RouteListResponse, error)
	UpdateRoute(ctx context.Context, id string, req routes.UpdateRouteRequest) (*routes.RouteResponse, error)
	DeleteRoute(ctx context.Context, id string) error

	AppendHold(ctx context.Context, routeID string, req routes.AppendHoldRequest) (*routes.RouteResponse, error)
	UpdateHold(ctx context.Context, routeID string, order int, req routes.UpdateHoldRequest) (*routes.RouteResponse, error)
	MoveHold(ctx context.Context, routeID string, order, newOrder int) (*routes.RouteResponse, error)
	RemoveHold(ctx context.Context, routeID string, order int) (*routes.RouteResponse, error)
}

type routesService struct {
	log        *logrus.Logger
	routesRepo routeRepository.Repository
	photosRepo photoRepository.Repository
	utils      utils.IUtils
}

func NewRoutesService(
	log *logrus.Logger,
	routesRepo routeRepository.Repository,
	photosRepo photoRepository.Repository,
	utils utils.IUtils,
) IRoutesService {
	return &routesService{
		log:        log,
		routesRepo: routesRepo,
		photosRepo: photosRepo,
		utils:      utils,
	}
}
