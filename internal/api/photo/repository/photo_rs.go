package photoRepository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	photos "CruxBackend/internal/api/photo"
	"CruxBackend/internal/entity"
	contextPkg "CruxBackend/pkg/context"
)

type WallPhotoDB struct {
	ID        sql.NullString `db:"id"`
	Name      sql.NullString `db:"name"`
	ImageURL  sql.NullString `db:"image_url"`
	Width     sql.NullInt64  `db:"width"`
	Height    sql.NullInt64  `db:"height"`
	CreatedAt time.Time      `db:"created_at"`
}

func (r *photosRepository) CreatePhoto(ctx context.Context, photo entity.WallPhoto) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":         photo.ID,
		"name":       photo.Name,
		"image_url":  photo.ImageURL,
		"width":      photo.Width,
		"height":     photo.Height,
		"created_at": photo.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreatePhoto, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreatePhoto")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating photo")
		return err
	}

	return nil
}

func (r *photosRepository) GetPhotoByID(ctx context.Context, id string) (entity.WallPhoto, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var photo WallPhotoDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetPhotoByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetPhotoByID named query preparation err")
		return entity.WallPhoto{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&photo); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("GetPhotoByID no rows found")
			return entity.WallPhoto{}, photos.ErrPhotoNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetPhotoByID execution err")
		return entity.WallPhoto{}, err
	}

	return r.makePhoto(photo), nil
}

func (r *photosRepository) GetAllPhotos(ctx context.Context, limit, offset int) ([]entity.WallPhoto, int, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var photoRows []WallPhotoDB
	var total int

	countQuery, countArgs, err := sqlx.Named(queryCountAllPhotos, map[string]interface{}{})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountAllPhotos named query preparation err")
		return nil, 0, err
	}

	countQuery = r.q.Rebind(countQuery)

	if err := r.q.QueryRowxContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountAllPhotos execution err")
		return nil, 0, err
	}

	argsKV := map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	}

	query, args, err := sqlx.Named(queryGetAllPhotos, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetAllPhotos named query preparation err")
		return nil, 0, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &photoRows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetAllPhotos execution err")
		return nil, 0, err
	}

	var result []entity.WallPhoto
	for _, row := range photoRows {
		result = append(result, r.makePhoto(row))
	}

	return result, total, nil
}

func (r *photosRepository) DeletePhoto(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryDeletePhoto, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeletePhoto named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeletePhoto execution err")
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return photos.ErrPhotoNotFound
	}

	return nil
}

func (r *photosRepository) makePhoto(row WallPhotoDB) entity.WallPhoto {
	return entity.WallPhoto{
		ID:        row.ID.String,
		Name:      row.Name.String,
		ImageURL:  row.ImageURL.String,
		Width:     int(row.Width.Int64),
		Height:    int(row.Height.Int64),
		CreatedAt: row.CreatedAt,
	}
}
