package routeRepository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	routes "CruxBackend/internal/api/route"
	"CruxBackend/internal/entity"
	contextPkg "CruxBackend/pkg/context"
)

type RouteDB struct {
	ID        sql.NullString `db:"id"`
	PhotoID   sql.NullString `db:"photo_id"`
	Title     sql.NullString `db:"title"`
	Grade     sql.NullString `db:"grade"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r *routesRepository) CreateRoute(ctx context.Context, route entity.Route) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":         route.ID,
		"photo_id":   route.PhotoID,
		"title":      route.Title,
		"grade":      route.Grade,
		"created_at": route.CreatedAt,
		"updated_at": route.UpdatedAt,
	}

	query, args, err := sqlx.Named(queryCreateRoute, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateRoute")
		return err
	}
	query = r.q.Rebind(query)

	if _, err = r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating route")
		return err
	}

	return nil
}

func (r *routesRepository) GetRouteByID(ctx context.Context, id string) (entity.Route, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var route RouteDB

	query, args, err := sqlx.Named(queryGetRouteByID, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRouteByID named query preparation err")
		return entity.Route{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&route); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("GetRouteByID no rows found")
			return entity.Route{}, routes.ErrRouteNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRouteByID execution err")
		return entity.Route{}, err
	}

	return r.makeRoute(route), nil
}

func (r *routesRepository) GetRoutesByPhoto(ctx context.Context, photoID string, limit, offset int) ([]entity.Route, int, error) {
	return r.listRoutes(ctx, queryGetRoutesByPhoto, queryCountRoutesByPhoto, map[string]interface{}{
		"photo_id": photoID,
		"limit":    limit,
		"offset":   offset,
	})
}

func (r *routesRepository) GetAllRoutes(ctx context.Context, limit, offset int) ([]entity.Route, int, error) {
	return r.listRoutes(ctx, queryGetAllRoutes, queryCountAllRoutes, map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})
}

func (r *routesRepository) listRoutes(ctx context.Context, listQuery, countQuery string, argsKV map[string]interface{}) ([]entity.Route, int, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rows []RouteDB
	var total int

	countArgsKV := map[string]interface{}{}
	for k, v := range argsKV {
		if k != "limit" && k != "offset" {
			countArgsKV[k] = v
		}
	}

	count, countArgs, err := sqlx.Named(countQuery, countArgsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Route count named query preparation err")
		return nil, 0, err
	}

	count = r.q.Rebind(count)

	if err := r.q.QueryRowxContext(ctx, count, countArgs...).Scan(&total); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Route count execution err")
		return nil, 0, err
	}

	query, args, err := sqlx.Named(listQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Route list named query preparation err")
		return nil, 0, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Route list execution err")
		return nil, 0, err
	}

	var result []entity.Route
	for _, row := range rows {
		result = append(result, r.makeRoute(row))
	}

	return result, total, nil
}

func (r *routesRepository) UpdateRoute(ctx context.Context, route entity.Route) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":         route.ID,
		"title":      route.Title,
		"grade":      route.Grade,
		"updated_at": route.UpdatedAt,
	}

	query, args, err := sqlx.Named(queryUpdateRoute, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateRoute named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateRoute execution err")
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return routes.ErrRouteNotFound
	}

	return nil
}

func (r *routesRepository) DeleteRoute(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryDeleteRoute, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteRoute named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteRoute execution err")
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return routes.ErrRouteNotFound
	}

	return nil
}

func (r *routesRepository) makeRoute(row RouteDB) entity.Route {
	return entity.Route{
		ID:        row.ID.String,
		PhotoID:   row.PhotoID.String,
		Title:     row.Title.String,
		Grade:     row.Grade.String,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
