package photoService

import (
	"mime/multipart"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	photos "CruxBackend/internal/api/photo"
	photoRepository "CruxBackend/internal/api/photo/repository"
	"CruxBackend/pkg/redis"
	"CruxBackend/pkg/roboflow"
	"CruxBackend/pkg/s3"
	"CruxBackend/pkg/utils"
)

// ProgressFunc receives per-tile updates while detection runs. A nil
// function disables progress reporting.
type ProgressFunc func(photos.DetectionProgress)

type IPhotosService interface {
	CreatePhoto(ctx context.Context, name string, file *multipart.FileHeader) (*photos.PhotoResponse, error)
	GetPhotoByID(ctx context.Context, id string) (*photos.PhotoResponse, error)
	GetAllPhotos(ctx context.Context, page, limit int) (*photos.PhotoListResponse, error)
	DeletePhoto(ctx context.Context, id string) error

	RunDetection(ctx context.Context, photoID string, progress ProgressFunc) (*photos.DetectionResultResponse, error)
	GetDetectedHolds(ctx context.Context, photoID string) (*photos.DetectedHoldListResponse, error)
	FindHoldsAtPoint(ctx context.Context, photoID string, x, y float64) (*photos.DetectedHoldListResponse, error)
	FindHoldAtPoint(ctx context.Context, photoID string, x, y float64) (*photos.DetectedHoldResponse, error)
}

type photosService struct {
	log        *logrus.Logger
	photosRepo photoRepository.Repository
	s3Client   s3.ItfS3
	redis      redis.IRedis
	detector   roboflow.ItfRoboflow
	utils      utils.IUtils
}

func NewPhotosService(
	log *logrus.Logger,
	photosRepo photoRepository.Repository,
	s3Client s3.ItfS3,
	redisServer redis.IRedis,
	detector roboflow.ItfRoboflow,
	utils utils.IUtils,
) IPhotosService {
	return &photosService{
		log:        log,
		photosRepo: photosRepo,
		s3Client:   s3Client,
		redis:      redisServer,
		detector:   detector,
		utils:      utils,
	}
}
