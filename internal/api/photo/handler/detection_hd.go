package photoHandler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"

	photos "CruxBackend/internal/api/photo"
	photoService "CruxBackend/internal/api/photo/service"
	contextPkg "CruxBackend/pkg/context"
	"CruxBackend/pkg/handlerUtil"
	"CruxBackend/pkg/log"
)

// detectionTimeout bounds the whole tiled pipeline: nine model calls
// plus retries.
const detectionTimeout = 5 * time.Minute

func (h *PhotosHandler) RunDetection(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), detectionTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing detection request")

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("photo ID is required"), ctx.Path())
	}

	result, err := h.photosService.RunDetection(c, id, nil)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "run_detection")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

// handleDetectionWebSocket runs the detection pipeline while streaming
// per-tile progress frames, then a final frame with the hold count.
func (h *PhotosHandler) handleDetectionWebSocket(c *websocket.Conn) {
	h.log.Info("Detection progress WebSocket client connected")
	defer h.log.Info("Detection progress WebSocket client disconnected")

	photoID := c.Params("id")
	if photoID == "" {
		_ = c.WriteJSON(photos.DetectionProgress{Error: "photo ID is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), detectionTimeout)
	defer cancel()

	progress := func(update photos.DetectionProgress) {
		if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			h.log.Errorf("Error setting write deadline: %v", err)
			return
		}
		if err := c.WriteJSON(update); err != nil {
			h.log.Errorf("Error writing detection progress: %v", err)
		}
	}

	result, err := h.photosService.RunDetection(ctx, photoID, photoService.ProgressFunc(progress))
	if err != nil {
		_ = c.WriteJSON(photos.DetectionProgress{Done: true, Error: err.Error()})
		return
	}

	if err := c.WriteJSON(photos.DetectionProgress{
		Done:  true,
		Found: result.HoldCount,
	}); err != nil {
		h.log.Errorf("Error writing detection result: %v", err)
	}
}
