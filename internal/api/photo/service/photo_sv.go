package photoService

import (
	"errors"
	"mime/multipart"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	photos "CruxBackend/internal/api/photo"
	"CruxBackend/internal/entity"
	"CruxBackend/pkg/geometry"
	"CruxBackend/pkg/imageutil"
	redisPkg "CruxBackend/pkg/redis"
	"CruxBackend/pkg/utils"
)

func (s *photosService) CreatePhoto(ctx context.Context, name string, file *multipart.FileHeader) (*photos.PhotoResponse, error) {
	if err := s.utils.ValidateImageFile(file); err != nil {
		if errors.Is(err, utils.ErrFileTooLarge) {
			return nil, photos.ErrFileTooLarge
		}
		return nil, photos.ErrInvalidFileType
	}

	data, err := s.utils.ReadMultipartFile(file)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("Failed to read uploaded photo")
		return nil, photos.ErrCreatePhoto
	}

	width, height, err := imageutil.Dimensions(data)
	if err != nil {
		return nil, photos.ErrInvalidImage
	}

	imageURL, err := s.s3Client.UploadFile(file)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("Failed to upload photo to S3")
		return nil, photos.ErrFailedToUpload
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return nil, photos.ErrCreatePhoto
	}

	photo := entity.WallPhoto{
		ID:        id,
		Name:      name,
		ImageURL:  imageURL,
		Width:     width,
		Height:    height,
		CreatedAt: time.Now(),
	}

	client, err := s.photosRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	if err := client.Photos.CreatePhoto(ctx, photo); err != nil {
		return nil, photos.ErrCreatePhoto
	}

	resp := s.makePhotoResponse(photo)
	return &resp, nil
}

func (s *photosService) GetPhotoByID(ctx context.Context, id string) (*photos.PhotoResponse, error) {
	client, err := s.photosRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	photo, err := client.Photos.GetPhotoByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := s.makePhotoResponse(photo)
	return &resp, nil
}

func (s *photosService) GetAllPhotos(ctx context.Context, page, limit int) (*photos.PhotoListResponse, error) {
	client, err := s.photosRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * limit
	list, total, err := client.Photos.GetAllPhotos(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	result := photos.PhotoListResponse{
		Photos: make([]photos.PhotoResponse, 0, len(list)),
		Total:  total,
	}
	for _, photo := range list {
		result.Photos = append(result.Photos, s.makePhotoResponse(photo))
	}

	return &result, nil
}

func (s *photosService) DeletePhoto(ctx context.Context, id string) error {
	client, err := s.photosRepo.NewClient(true)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Rollback()
	}()

	photo, err := client.Photos.GetPhotoByID(ctx, id)
	if err != nil {
		return err
	}

	if err := client.DetectedHolds.DeleteDetectedHoldsByPhoto(ctx, id); err != nil {
		return photos.ErrDeletePhoto
	}

	if err := client.Photos.DeletePhoto(ctx, id); err != nil {
		return err
	}

	if err := client.Commit(); err != nil {
		return photos.ErrDeletePhoto
	}

	if err := s.s3Client.DeleteFile(photo.ImageURL); err != nil {
		s.log.WithFields(logrus.Fields{
			"photo_id": id,
			"error":    err.Error(),
		}).Warn("Failed to delete photo object from S3")
	}

	if err := s.redis.InvalidateDetectedHolds(ctx, id); err != nil {
		s.log.WithFields(logrus.Fields{
			"photo_id": id,
			"error":    err.Error(),
		}).Warn("Failed to invalidate detected holds cache")
	}

	return nil
}

// GetDetectedHolds serves the photo's canonical hold list, preferring
// the Redis copy.
func (s *photosService) GetDetectedHolds(ctx context.Context, photoID string) (*photos.DetectedHoldListResponse, error) {
	if cached, err := s.redis.GetDetectedHolds(ctx, photoID); err == nil {
		var result photos.DetectedHoldListResponse
		if err := jsoniter.UnmarshalFromString(cached, &result); err == nil {
			return &result, nil
		}
		s.log.WithFields(logrus.Fields{
			"photo_id": photoID,
		}).Warn("Corrupt detected holds cache entry, falling back to database")
	} else if !errors.Is(err, redisPkg.ErrCacheMiss) {
		s.log.WithFields(logrus.Fields{
			"photo_id": photoID,
			"error":    err.Error(),
		}).Warn("Detected holds cache unavailable, falling back to database")
	}

	client, err := s.photosRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	if _, err := client.Photos.GetPhotoByID(ctx, photoID); err != nil {
		return nil, err
	}

	holds, err := client.DetectedHolds.GetDetectedHoldsByPhoto(ctx, photoID)
	if err != nil {
		return nil, err
	}

	result := makeDetectedHoldList(photoID, holds)
	s.cacheDetectedHolds(ctx, photoID, result)

	return &result, nil
}

// FindHoldsAtPoint returns every detected hold whose polygon contains
// the percentage-space point, smallest area first.
func (s *photosService) FindHoldsAtPoint(ctx context.Context, photoID string, x, y float64) (*photos.DetectedHoldListResponse, error) {
	if x < 0 || x > 100 || y < 0 || y > 100 {
		return nil, photos.ErrInvalidPoint
	}

	list, err := s.GetDetectedHolds(ctx, photoID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]photos.DetectedHoldResponse, len(list.Holds))
	regions := make([]geometry.Region, 0, len(list.Holds))
	for _, hold := range list.Holds {
		byID[hold.ID] = hold
		regions = append(regions, geometry.Region{ID: hold.ID, Polygon: hold.Polygon})
	}

	matches := geometry.RegionsAtPoint(x, y, regions)

	result := photos.DetectedHoldListResponse{
		PhotoID: photoID,
		Holds:   make([]photos.DetectedHoldResponse, 0, len(matches)),
	}
	for _, match := range matches {
		result.Holds = append(result.Holds, byID[match.ID])
	}

	return &result, nil
}

// FindHoldAtPoint resolves a tap to the single most specific hold: the
// smallest polygon containing the point.
func (s *photosService) FindHoldAtPoint(ctx context.Context, photoID string, x, y float64) (*photos.DetectedHoldResponse, error) {
	matches, err := s.FindHoldsAtPoint(ctx, photoID, x, y)
	if err != nil {
		return nil, err
	}

	if len(matches.Holds) == 0 {
		return nil, photos.ErrNoHoldAtPoint
	}

	return &matches.Holds[0], nil
}

func (s *photosService) cacheDetectedHolds(ctx context.Context, photoID string, list photos.DetectedHoldListResponse) {
	payload, err := jsoniter.MarshalToString(list)
	if err != nil {
		return
	}
	if err := s.redis.SetDetectedHolds(ctx, photoID, payload); err != nil {
		s.log.WithFields(logrus.Fields{
			"photo_id": photoID,
			"error":    err.Error(),
		}).Warn("Failed to cache detected holds")
	}
}

// makePhotoResponse exposes the photo with a short-lived presigned GET
// URL. The stored URL is served as-is when presigning fails so a
// transient S3 error does not take down photo reads.
func (s *photosService) makePhotoResponse(photo entity.WallPhoto) photos.PhotoResponse {
	imageURL, err := s.s3Client.PresignUrl(photo.ImageURL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"photo_id": photo.ID,
			"error":    err.Error(),
		}).Warn("Failed to presign photo URL")
		imageURL = photo.ImageURL
	}

	return photos.PhotoResponse{
		ID:        photo.ID,
		Name:      photo.Name,
		ImageURL:  imageURL,
		Width:     photo.Width,
		Height:    photo.Height,
		CreatedAt: photo.CreatedAt,
	}
}

func makeDetectedHoldList(photoID string, holds []entity.DetectedHold) photos.DetectedHoldListResponse {
	result := photos.DetectedHoldListResponse{
		PhotoID: photoID,
		Holds:   make([]photos.DetectedHoldResponse, 0, len(holds)),
	}

	for _, hold := range holds {
		result.Holds = append(result.Holds, photos.DetectedHoldResponse{
			ID:            hold.ID,
			Polygon:       hold.Polygon,
			Center:        geometry.Point{X: hold.CenterX, Y: hold.CenterY},
			DominantColor: hold.DominantColor,
			Class:         hold.Class,
			Confidence:    hold.Confidence,
		})
	}

	return result
}
