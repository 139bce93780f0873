package photoRepository

import (
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"CruxBackend/internal/entity"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Photos:        &photosRepository{q: sqlExecutor, log: r.log},
		DetectedHolds: &detectedHoldsRepository{q: sqlExecutor, log: r.log},
		Commit:        commitFunc,
		Rollback:      rollbackFunc,
	}, nil
}

type Client struct {
	Photos interface {
		CreatePhoto(ctx context.Context, photo entity.WallPhoto) error
		GetPhotoByID(ctx context.Context, id string) (entity.WallPhoto, error)
		GetAllPhotos(ctx context.Context, limit, offset int) ([]entity.WallPhoto, int, error)
		DeletePhoto(ctx context.Context, id string) error
	}

	DetectedHolds interface {
		CreateDetectedHold(ctx context.Context, hold entity.DetectedHold) error
		GetDetectedHoldByID(ctx context.Context, id string) (entity.DetectedHold, error)
		GetDetectedHoldsByPhoto(ctx context.Context, photoID string) ([]entity.DetectedHold, error)
		DeleteDetectedHoldsByPhoto(ctx context.Context, photoID string) error
	}

	Commit   func() error
	Rollback func() error
}

type photosRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type detectedHoldsRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
