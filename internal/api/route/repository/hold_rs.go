package routeRepository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	routes "CruxBackend/internal/api/route"
	"CruxBackend/internal/entity"
	contextPkg "CruxBackend/pkg/context"
)

type HoldDB struct {
	ID             sql.NullString  `db:"id"`
	RouteID        sql.NullString  `db:"route_id"`
	DetectedHoldID sql.NullString  `db:"detected_hold_id"`
	Order          sql.NullInt64   `db:"hold_order"`
	LabelX         sql.NullFloat64 `db:"label_x"`
	LabelY         sql.NullFloat64 `db:"label_y"`
	Note           sql.NullString  `db:"note"`
	CreatedAt      time.Time       `db:"created_at"`
}

func (r *holdsRepository) CreateHold(ctx context.Context, hold entity.Hold) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":               hold.ID,
		"route_id":         hold.RouteID,
		"detected_hold_id": hold.DetectedHoldID,
		"hold_order":       hold.Order,
		"label_x":          hold.LabelX,
		"label_y":          hold.LabelY,
		"note":             hold.Note,
		"created_at":       hold.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateHold, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateHold")
		return err
	}
	query = r.q.Rebind(query)

	if _, err = r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating hold")
		return err
	}

	return nil
}

func (r *holdsRepository) GetHoldsByRoute(ctx context.Context, routeID string) ([]entity.Hold, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rows []HoldDB

	query, args, err := sqlx.Named(queryGetHoldsByRoute, map[string]interface{}{"route_id": routeID})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetHoldsByRoute named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetHoldsByRoute execution err")
		return nil, err
	}

	var holds []entity.Hold
	for _, row := range rows {
		holds = append(holds, entity.Hold{
			ID:             row.ID.String,
			RouteID:        row.RouteID.String,
			DetectedHoldID: row.DetectedHoldID.String,
			Order:          int(row.Order.Int64),
			LabelX:         row.LabelX.Float64,
			LabelY:         row.LabelY.Float64,
			Note:           row.Note.String,
			CreatedAt:      row.CreatedAt,
		})
	}

	return holds, nil
}

func (r *holdsRepository) UpdateHold(ctx context.Context, hold entity.Hold) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":      hold.ID,
		"label_x": hold.LabelX,
		"label_y": hold.LabelY,
		"note":    hold.Note,
	}

	query, args, err := sqlx.Named(queryUpdateHold, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateHold named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateHold execution err")
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return routes.ErrHoldNotFound
	}

	return nil
}

func (r *holdsRepository) SetHoldOrder(ctx context.Context, id string, order int) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(querySetHoldOrder, map[string]interface{}{
		"id":         id,
		"hold_order": order,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("SetHoldOrder named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("SetHoldOrder execution err")
		return err
	}

	return nil
}

func (r *holdsRepository) DeleteHold(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryDeleteHold, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteHold named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteHold execution err")
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return routes.ErrHoldNotFound
	}

	return nil
}

func (r *holdsRepository) DeleteHoldsByRoute(ctx context.Context, routeID string) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryDeleteHoldsByRoute, map[string]interface{}{"route_id": routeID})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteHoldsByRoute named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteHoldsByRoute execution err")
		return err
	}

	return nil
}
