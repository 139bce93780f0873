package routeHandler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"

	routes "CruxBackend/internal/api/route"
	contextPkg "CruxBackend/pkg/context"
	"CruxBackend/pkg/handlerUtil"
)

// holdParams pulls the route ID and the 1-based hold order out of the
// path. Order validation against the actual sequence length happens in
// the service; here only the shape is checked.
func holdParams(ctx *fiber.Ctx) (string, int, error) {
	id := ctx.Params("id")
	if id == "" {
		return "", 0, errors.New("route ID is required")
	}

	order, err := strconv.Atoi(ctx.Params("order"))
	if err != nil || order < 1 {
		return "", 0, errors.New("hold order must be a positive integer")
	}

	return id, order, nil
}

func (h *RoutesHandler) AppendHold(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("route ID is required"), ctx.Path())
	}

	var req routes.AppendHoldRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	route, err := h.routesService.AppendHold(c, id, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "append_hold")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, route)
	}
}

func (h *RoutesHandler) UpdateHold(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id, order, err := holdParams(ctx)
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	var req routes.UpdateHoldRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	route, err := h.routesService.UpdateHold(c, id, order, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "update_hold")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, route)
	}
}

func (h *RoutesHandler) MoveHold(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id, order, err := holdParams(ctx)
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	var req routes.MoveHoldRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	route, err := h.routesService.MoveHold(c, id, order, req.NewOrder)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "move_hold")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, route)
	}
}

func (h *RoutesHandler) RemoveHold(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id, order, err := holdParams(ctx)
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	route, err := h.routesService.RemoveHold(c, id, order)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "remove_hold")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, route)
	}
}
