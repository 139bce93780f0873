package photoHandler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"

	contextPkg "CruxBackend/pkg/context"
	"CruxBackend/pkg/handlerUtil"
	"CruxBackend/pkg/log"
)

func (h *PhotosHandler) CreatePhoto(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing create photo request")

	name := ctx.FormValue("name")
	if name == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("name is required"), ctx.Path())
	}

	imageFile, err := ctx.FormFile("image")
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("image file is required"), ctx.Path())
	}

	photo, err := h.photosService.CreatePhoto(c, name, imageFile)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "create_photo")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, photo)
	}
}

func (h *PhotosHandler) GetPhotoByID(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("photo ID is required"), ctx.Path())
	}

	photo, err := h.photosService.GetPhotoByID(c, id)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_photo")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, photo)
	}
}

func (h *PhotosHandler) GetAllPhotos(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	page, err := strconv.Atoi(ctx.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(ctx.Query("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 10
	}

	result, err := h.photosService.GetAllPhotos(c, page, limit)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_all_photos")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func (h *PhotosHandler) DeletePhoto(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("photo ID is required"), ctx.Path())
	}

	if err := h.photosService.DeletePhoto(c, id); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "delete_photo")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "Photo deleted successfully",
		})
	}
}

func (h *PhotosHandler) GetDetectedHolds(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("photo ID is required"), ctx.Path())
	}

	result, err := h.photosService.GetDetectedHolds(c, id)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_detected_holds")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

// FindHoldsAtPoint resolves which detected hold a tap landed on. By
// default it answers with the single smallest containing polygon; with
// ?all=true it returns every containing polygon, smallest first.
func (h *PhotosHandler) FindHoldsAtPoint(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("photo ID is required"), ctx.Path())
	}

	x, errX := strconv.ParseFloat(ctx.Query("x"), 64)
	y, errY := strconv.ParseFloat(ctx.Query("y"), 64)
	if errX != nil || errY != nil {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("x and y query parameters are required"), ctx.Path())
	}

	if ctx.QueryBool("all") {
		result, err := h.photosService.FindHoldsAtPoint(c, id, x, y)
		if err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "find_holds_at_point")
		}
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}

	hold, err := h.photosService.FindHoldAtPoint(c, id, x, y)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "find_hold_at_point")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, hold)
	}
}
