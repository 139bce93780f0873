package routeHandler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	routeService "CruxBackend/internal/api/route/service"
	"CruxBackend/internal/middleware"
)

type RoutesHandler struct {
	log           *logrus.Logger
	validator     *validator.Validate
	middleware    middleware.Middleware
	routesService routeService.IRoutesService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	rs routeService.IRoutesService,
) *RoutesHandler {
	return &RoutesHandler{
		log:           log,
		validator:     validate,
		middleware:    middleware,
		routesService: rs,
	}
}

func (h *RoutesHandler) Start(srv fiber.Router) {
	routes := srv.Group("/routes")

	routes.Post("", h.middleware.NewRateLimiter, h.CreateRoute)
	routes.Get("", h.GetRoutes)
	routes.Get("/:id", h.GetRouteByID)
	routes.Put("/:id", h.UpdateRoute)
	routes.Delete("/:id", h.DeleteRoute)

	routes.Post("/:id/holds", h.AppendHold)
	routes.Patch("/:id/holds/:order", h.UpdateHold)
	routes.Put("/:id/holds/:order/position", h.MoveHold)
	routes.Delete("/:id/holds/:order", h.RemoveHold)
}
