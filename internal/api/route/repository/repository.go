package routeRepository

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
		Routes:   &routesRepository{q: sqlExecutor, log: r.log},
		Holds:    &holdsRepository{q: sqlExecutor, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Routes interface {
		CreateRoute(ctx context.Context, route entity.Route) error
		GetRouteByID(ctx context.Context, id string) (entity.Route, error)
		GetRoutesByPhoto(ctx context.Context, photoID string, limit, offset int) ([]entity.Route, int, error)
		GetAllRoutes(ctx context.Context, limit, offset int) ([]entity.Route, int, error)
		UpdateRoute(ctx context.Context, route entity.Route) error
		DeleteRoute(ctx context.Context, id string) error
	}

	Holds interface {
		CreateHold(ctx context.Context, hold entity.Hold) error
		GetHoldsByRoute(ctx context.Context, routeID string) ([]entity.Hold, error)
		UpdateHold(ctx context.Context, hold entity.Hold) error
		DeleteHold(ctx context.Context, id string) error
		SetHoldOrder(ctx context.Context, id string, order int) error
		DeleteHoldsByRoute(ctx context.Context, routeID string) error
	}

	Commit   func() error
	Rollback func() error
}

type routesRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type holdsRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
