package photoService

import (
	"errors"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"

	photos "CruxBackend/internal/api/photo"
	photoRepository "CruxBackend/internal/api/photo/repository"
	"CruxBackend/internal/entity"
	redisPkg "CruxBackend/pkg/redis"
	"CruxBackend/pkg/roboflow"
	"CruxBackend/pkg/utils"
)

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
	var list []entity.WallPhoto
	for _, photo := range m.photos {
		list = append(list, photo)
	}
	return list, len(list), nil
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

type stubS3 struct {
	presigned  string
	presignErr error
}

func (s *stubS3) UploadFile(file *multipart.FileHeader) (string, error) {
	return "https://bucket.s3.amazonaws.com/stored.jpg", nil
}

func (s *stubS3) DownloadFile(fileURL string) ([]byte, error) { return nil, nil }

func (s *stubS3) PresignUrl(fileURL string) (string, error) {
	if s.presignErr != nil {
		return "", s.presignErr
	}
	return s.presigned, nil
}

func (s *stubS3) DeleteFile(fileURL string) error { return nil }

type missRedis struct{}

func (missRedis) SetDetectedHolds(ctx context.Context, photoID, payload string) error { return nil }

func (missRedis) GetDetectedHolds(ctx context.Context, photoID string) (string, error) {
	return "", redisPkg.ErrCacheMiss
}

func (missRedis) InvalidateDetectedHolds(ctx context.Context, photoID string) error { return nil }

type stubDetector struct{}

func (stubDetector) DetectTile(ctx context.Context, jpegData []byte) ([]roboflow.Prediction, error) {
	return nil, nil
}

func (stubDetector) Confidence() float64 { return 0 }

func newTestService(s3Client *stubS3) (IPhotosService, *memPhotoStore) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	store := newMemPhotoStore()
	service := NewPhotosService(log, store, s3Client, missRedis{}, stubDetector{}, utils.New())

	return service, store
}

func seedPhoto(store *memPhotoStore, id string) entity.WallPhoto {
	photo := entity.WallPhoto{
		ID:        id,
		Name:      "gym wall",
		ImageURL:  "https://bucket.s3.amazonaws.com/" + id + ".jpg",
		Width:     4000,
		Height:    3000,
		CreatedAt: time.Now(),
	}
	store.photos[id] = photo
	return photo
}

func TestCreatePhotoRejectsOversizeFile(t *testing.T) {
	service, _ := newTestService(&stubS3{})

	file := &multipart.FileHeader{
		Filename: "huge.jpg",
		Size:     6 * 1024 * 1024,
		Header:   textproto.MIMEHeader{"Content-Type": {"image/jpeg"}},
	}

	_, err := service.CreatePhoto(context.Background(), "huge wall", file)

	assert.ErrorIs(t, err, photos.ErrFileTooLarge)
}

func TestCreatePhotoRejectsNonImageFile(t *testing.T) {
	service, _ := newTestService(&stubS3{})

	file := &multipart.FileHeader{
		Filename: "notes.txt",
		Size:     128,
		Header:   textproto.MIMEHeader{"Content-Type": {"text/plain"}},
	}

	_, err := service.CreatePhoto(context.Background(), "notes", file)

	assert.ErrorIs(t, err, photos.ErrInvalidFileType)
}

func TestGetPhotoByIDReturnsPresignedURL(t *testing.T) {
	s3Client := &stubS3{presigned: "https://bucket.s3.amazonaws.com/photo-001.jpg?X-Amz-Signature=abc"}
	service, store := newTestService(s3Client)
	seedPhoto(store, "photo-001")

	resp, err := service.GetPhotoByID(context.Background(), "photo-001")

	require.NoError(t, err)
	assert.Equal(t, s3Client.presigned, resp.ImageURL)
}

func TestGetAllPhotosReturnsPresignedURLs(t *testing.T) {
	s3Client := &stubS3{presigned: "https://bucket.s3.amazonaws.com/signed?X-Amz-Signature=abc"}
	service, store := newTestService(s3Client)
	seedPhoto(store, "photo-001")
	seedPhoto(store, "photo-002")

	resp, err := service.GetAllPhotos(context.Background(), 1, 10)

	require.NoError(t, err)
	require.Len(t, resp.Photos, 2)
	for _, photo := range resp.Photos {
		assert.Equal(t, s3Client.presigned, photo.ImageURL)
	}
}

func TestGetPhotoByIDFallsBackToStoredURLWhenPresignFails(t *testing.T) {
	s3Client := &stubS3{presignErr: errors.New("presign failed")}
	service, store := newTestService(s3Client)
	photo := seedPhoto(store, "photo-001")

	resp, err := service.GetPhotoByID(context.Background(), "photo-001")

	require.NoError(t, err)
	assert.Equal(t, photo.ImageURL, resp.ImageURL)
}
