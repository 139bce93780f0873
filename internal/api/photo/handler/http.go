package photoHandler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	photoService "CruxBackend/internal/api/photo/service"
	"CruxBackend/internal/middleware"
	"CruxBackend/pkg/utils"
)

type PhotosHandler struct {
	log           *logrus.Logger
	validator     *validator.Validate
	middleware    middleware.Middleware
	photosService photoService.IPhotosService
	utils         utils.IUtils
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	ps photoService.IPhotosService,
	utils utils.IUtils,
) *PhotosHandler {
	return &PhotosHandler{
		log:           log,
		validator:     validate,
		middleware:    middleware,
		photosService: ps,
		utils:         utils,
	}
}

func (h *PhotosHandler) Start(srv fiber.Router) {
	photos := srv.Group("/photos")

	photos.Post("", h.middleware.NewRateLimiter, h.CreatePhoto)
	photos.Get("", h.GetAllPhotos)
	photos.Get("/:id", h.GetPhotoByID)
	photos.Delete("/:id", h.DeletePhoto)

	photos.Post("/:id/detect", h.middleware.NewRateLimiter, h.RunDetection)
	photos.Get("/:id/holds", h.GetDetectedHolds)
	photos.Get("/:id/holds/at", h.FindHoldsAtPoint)

	wsUpgrade := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
	photos.Use("/:id/detect/ws", wsUpgrade)
	photos.Get("/:id/detect/ws", websocket.New(h.handleDetectionWebSocket))
}
