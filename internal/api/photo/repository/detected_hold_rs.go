package photoRepository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	photos "CruxBackend/internal/api/photo"
	"CruxBackend/internal/entity"
	contextPkg "CruxBackend/pkg/context"
	"CruxBackend/pkg/geometry"
)

// DetectedHoldDB mirrors the detected_holds row; the polygon is stored
// as a JSON array of percentage-space points.
type DetectedHoldDB struct {
	ID            sql.NullString  `db:"id"`
	PhotoID       sql.NullString  `db:"photo_id"`
	Polygon       sql.NullString  `db:"polygon"`
	CenterX       sql.NullFloat64 `db:"center_x"`
	CenterY       sql.NullFloat64 `db:"center_y"`
	DominantColor sql.NullString  `db:"dominant_color"`
	Class         sql.NullString  `db:"class"`
	Confidence    sql.NullFloat64 `db:"confidence"`
	CreatedAt     time.Time       `db:"created_at"`
}

func (r *detectedHoldsRepository) CreateDetectedHold(ctx context.Context, hold entity.DetectedHold) error {
	requestID := contextPkg.GetRequestID(ctx)

	polygonJSON, err := jsoniter.MarshalToString(hold.Polygon)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to encode polygon for CreateDetectedHold")
		return err
	}

	argsKV := map[string]interface{}{
		"id":             hold.ID,
		"photo_id":       hold.PhotoID,
		"polygon":        polygonJSON,
		"center_x":       hold.CenterX,
		"center_y":       hold.CenterY,
		"dominant_color": hold.DominantColor,
		"class":          hold.Class,
		"confidence":     hold.Confidence,
		"created_at":     hold.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateDetectedHold, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateDetectedHold")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating detected hold")
		return err
	}

	return nil
}

func (r *detectedHoldsRepository) GetDetectedHoldByID(ctx context.Context, id string) (entity.DetectedHold, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var row DetectedHoldDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetDetectedHoldByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDetectedHoldByID named query preparation err")
		return entity.DetectedHold{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.DetectedHold{}, photos.ErrDetectedHoldNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDetectedHoldByID execution err")
		return entity.DetectedHold{}, err
	}

	return r.makeDetectedHold(requestID, row), nil
}

func (r *detectedHoldsRepository) GetDetectedHoldsByPhoto(ctx context.Context, photoID string) ([]entity.DetectedHold, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rows []DetectedHoldDB

	argsKV := map[string]interface{}{
		"photo_id": photoID,
	}

	query, args, err := sqlx.Named(queryGetDetectedHoldsByPhoto, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDetectedHoldsByPhoto named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDetectedHoldsByPhoto execution err")
		return nil, err
	}

	var holds []entity.DetectedHold
	for _, row := range rows {
		holds = append(holds, r.makeDetectedHold(requestID, row))
	}

	return holds, nil
}

func (r *detectedHoldsRepository) DeleteDetectedHoldsByPhoto(ctx context.Context, photoID string) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"photo_id": photoID,
	}

	query, args, err := sqlx.Named(queryDeleteDetectedHoldsByPhoto, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteDetectedHoldsByPhoto named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteDetectedHoldsByPhoto execution err")
		return err
	}

	return nil
}

func (r *detectedHoldsRepository) makeDetectedHold(requestID string, row DetectedHoldDB) entity.DetectedHold {
	var polygon []geometry.Point
	if row.Polygon.Valid && row.Polygon.String != "" {
		if err := jsoniter.UnmarshalFromString(row.Polygon.String, &polygon); err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"hold_id":    row.ID.String,
				"error":      err.Error(),
			}).Warn("Failed to decode stored polygon, treating as degenerate")
			polygon = nil
		}
	}

	return entity.DetectedHold{
		ID:            row.ID.String,
		PhotoID:       row.PhotoID.String,
		Polygon:       polygon,
		CenterX:       row.CenterX.Float64,
		CenterY:       row.CenterY.Float64,
		DominantColor: row.DominantColor.String,
		Class:         row.Class.String,
		Confidence:    row.Confidence.Float64,
		CreatedAt:     row.CreatedAt,
	}
}
