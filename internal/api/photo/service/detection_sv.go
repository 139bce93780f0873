package photoService

import (
	"image"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	photos "CruxBackend/internal/api/photo"
	"CruxBackend/internal/entity"
	"CruxBackend/pkg/dedupe"
	"CruxBackend/pkg/geometry"
	"CruxBackend/pkg/imageutil"
	"CruxBackend/pkg/roboflow"
)

// defaultDedupThresholdPercent is the center-proximity threshold for
// collapsing duplicate detections from overlapping tiles, expressed as
// a percentage of the image dimensions so it is resolution independent.
const defaultDedupThresholdPercent = 2.0

// RunDetection runs the full tiled detection pipeline for a photo and
// replaces its stored detected holds with the result. The photo is
// split into overlapping tiles, each tile goes to the hosted model,
// tile-local coordinates are translated back to full-image pixel
// space, near-duplicates from the overlap regions are collapsed, and
// the survivors are persisted as percentage-space polygons.
func (s *photosService) RunDetection(ctx context.Context, photoID string, progress ProgressFunc) (*photos.DetectionResultResponse, error) {
	client, err := s.photosRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	photo, err := client.Photos.GetPhotoByID(ctx, photoID)
	if err != nil {
		return nil, err
	}

	data, err := s.s3Client.DownloadFile(photo.ImageURL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"photo_id": photoID,
			"error":    err.Error(),
		}).Error("Failed to fetch photo bytes for detection")
		return nil, photos.ErrDetectionFailed
	}

	img, err := imageutil.Decode(data)
	if err != nil {
		return nil, photos.ErrInvalidImage
	}

	width := img.Bounds().Dx()
	height := img.Bounds().Dy()

	predictions, err := s.detectAllTiles(ctx, img, progress)
	if err != nil {
		return nil, err
	}

	survivors := dedupe.Deduplicate(predictions, dedupThresholdPercent(), float64(width), float64(height))

	s.log.WithFields(logrus.Fields{
		"photo_id":     photoID,
		"raw_count":    len(predictions),
		"dedup_count":  len(survivors),
		"image_width":  width,
		"image_height": height,
	}).Info("Detection pipeline finished model calls")

	holds := s.makeHolds(photo, img, survivors)

	if err := s.replaceDetectedHolds(ctx, photoID, holds); err != nil {
		return nil, err
	}

	if err := s.redis.InvalidateDetectedHolds(ctx, photoID); err != nil {
		s.log.WithFields(logrus.Fields{
			"photo_id": photoID,
			"error":    err.Error(),
		}).Warn("Failed to invalidate detected holds cache after detection")
	}

	list := makeDetectedHoldList(photoID, holds)
	return &photos.DetectionResultResponse{
		PhotoID:   photoID,
		HoldCount: len(list.Holds),
		Holds:     list.Holds,
	}, nil
}

// detectAllTiles runs the hosted model over every tile and returns all
// predictions translated into full-image pixel space. The returned
// values implement dedupe.RawPrediction and carry their class name
// through the taggedPrediction wrappers.
func (s *photosService) detectAllTiles(ctx context.Context, img image.Image, progress ProgressFunc) ([]dedupe.RawPrediction, error) {
	tiles := imageutil.TileGrid(img.Bounds().Dx(), img.Bounds().Dy())

	var all []dedupe.RawPrediction
	for i, tile := range tiles {
		jpeg, err := imageutil.CropJPEG(img, tile)
		if err != nil {
			return nil, photos.ErrDetectionFailed
		}

		preds, err := s.detector.DetectTile(ctx, jpeg)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"tile":  i,
				"error": err.Error(),
			}).Error("Detection API call failed")
			return nil, photos.ErrDetectionFailed
		}

		for _, pred := range preds {
			all = append(all, offsetPrediction(pred, tile))
		}

		if progress != nil {
			progress(photos.DetectionProgress{
				Tile:  i + 1,
				Total: len(tiles),
				Found: len(preds),
			})
		}
	}

	return all, nil
}

// taggedPolygon and taggedBox pair a dedupe variant with the detector
// metadata that survives deduplication alongside it.
type taggedPolygon struct {
	dedupe.PolygonPrediction
	class string
}

type taggedBox struct {
	dedupe.BoxPrediction
	class string
}

func offsetPrediction(pred roboflow.Prediction, tile imageutil.Tile) dedupe.RawPrediction {
	if len(pred.Points) > 0 {
		points := make([]geometry.Point, 0, len(pred.Points))
		for _, p := range pred.Points {
			points = append(points, geometry.Point{
				X: p.X + float64(tile.OffsetX),
				Y: p.Y + float64(tile.OffsetY),
			})
		}
		return &taggedPolygon{
			PolygonPrediction: dedupe.PolygonPrediction{Points: points, Score: pred.Confidence},
			class:             pred.Class,
		}
	}

	return &taggedBox{
		BoxPrediction: dedupe.BoxPrediction{
			X:      pred.X + float64(tile.OffsetX),
			Y:      pred.Y + float64(tile.OffsetY),
			Width:  pred.Width,
			Height: pred.Height,
			Score:  pred.Confidence,
		},
		class: pred.Class,
	}
}

// makeHolds converts surviving predictions into percentage-space
// DetectedHold entities, dropping anything below the confidence floor.
func (s *photosService) makeHolds(photo entity.WallPhoto, img image.Image, survivors []dedupe.RawPrediction) []entity.DetectedHold {
	width := float64(img.Bounds().Dx())
	height := float64(img.Bounds().Dy())
	floor := s.detector.Confidence()

	holds := make([]entity.DetectedHold, 0, len(survivors))
	for _, raw := range survivors {
		if raw.Confidence() < floor {
			continue
		}

		var polygon []geometry.Point
		var centerX, centerY float64
		var class string

		switch pred := raw.(type) {
		case *taggedPolygon:
			for _, p := range pred.Points {
				polygon = append(polygon, geometry.Point{
					X: round2(p.X / width * 100),
					Y: round2(p.Y / height * 100),
				})
			}
			var sumX, sumY float64
			for _, p := range polygon {
				sumX += p.X
				sumY += p.Y
			}
			centerX = round2(sumX / float64(len(polygon)))
			centerY = round2(sumY / float64(len(polygon)))
			class = pred.class
		case *taggedBox:
			halfW, halfH := pred.Width/2, pred.Height/2
			polygon = []geometry.Point{
				{X: round2((pred.X - halfW) / width * 100), Y: round2((pred.Y - halfH) / height * 100)},
				{X: round2((pred.X + halfW) / width * 100), Y: round2((pred.Y - halfH) / height * 100)},
				{X: round2((pred.X + halfW) / width * 100), Y: round2((pred.Y + halfH) / height * 100)},
				{X: round2((pred.X - halfW) / width * 100), Y: round2((pred.Y + halfH) / height * 100)},
			}
			centerX = round2(pred.X / width * 100)
			centerY = round2(pred.Y / height * 100)
			class = pred.class
		default:
			continue
		}

		if class == "" {
			class = "hold"
		}

		id, err := s.utils.NewULIDFromTimestamp(time.Now())
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"error": err.Error(),
			}).Error("Failed to generate detected hold ID")
			continue
		}

		holds = append(holds, entity.DetectedHold{
			ID:            id,
			PhotoID:       photo.ID,
			Polygon:       polygon,
			CenterX:       centerX,
			CenterY:       centerY,
			DominantColor: imageutil.DominantColor(img, centerX, centerY),
			Class:         class,
			Confidence:    round3(raw.Confidence()),
			CreatedAt:     time.Now(),
		})
	}

	return holds
}

func (s *photosService) replaceDetectedHolds(ctx context.Context, photoID string, holds []entity.DetectedHold) error {
	client, err := s.photosRepo.NewClient(true)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Rollback()
	}()

	if err := client.DetectedHolds.DeleteDetectedHoldsByPhoto(ctx, photoID); err != nil {
		return photos.ErrDetectionFailed
	}

	for _, hold := range holds {
		if err := client.DetectedHolds.CreateDetectedHold(ctx, hold); err != nil {
			return photos.ErrDetectionFailed
		}
	}

	return client.Commit()
}

func dedupThresholdPercent() float64 {
	if raw := os.Getenv("DETECTION_DEDUP_THRESHOLD_PERCENT"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultDedupThresholdPercent
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
