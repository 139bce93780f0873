// Package imageutil covers the image plumbing around hold detection:
// slicing a wall photo into overlapping tiles for the hosted model,
// re-encoding tiles as JPEG, and sampling a hold's dominant color.
package imageutil

import (
	"bytes"
	"image"
	_ "image/png"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	tileCols    = 3
	tileRows    = 3
	tileOverlap = 0.3

	fallbackColor = "#888888"
)

// Tile is one crop window of the full image. OffsetX/OffsetY translate
// tile-local detection coordinates back into full-image pixel space.
type Tile struct {
	Rect    image.Rectangle
	OffsetX int
	OffsetY int
}

// Decode parses image bytes (JPEG or PNG) into an image.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Dimensions reads the pixel dimensions from image bytes without
// keeping the decoded image.
func Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// TileGrid splits a width x height image into a 3x3 grid of tiles with
// 30% overlap. The hosted model caps detections per call, so large
// walls are processed tile by tile; the overlap catches holds that
// straddle tile borders (the duplicates it produces are collapsed by
// the deduplicator afterwards).
func TileGrid(width, height int) []Tile {
	tileWidth := width / tileCols
	tileHeight := height / tileRows
	overlapX := int(float64(tileWidth) * tileOverlap)
	overlapY := int(float64(tileHeight) * tileOverlap)

	tiles := make([]Tile, 0, tileCols*tileRows)
	for row := 0; row < tileRows; row++ {
		for col := 0; col < tileCols; col++ {
			x1 := max(0, col*tileWidth-overlapX)
			y1 := max(0, row*tileHeight-overlapY)
			x2 := min(width, (col+1)*tileWidth+overlapX)
			y2 := min(height, (row+1)*tileHeight+overlapY)

			tiles = append(tiles, Tile{
				Rect:    image.Rect(x1, y1, x2, y2),
				OffsetX: x1,
				OffsetY: y1,
			})
		}
	}

	return tiles
}

// CropJPEG cuts one tile out of the image and encodes it as JPEG for
// the detection API.
func CropJPEG(img image.Image, tile Tile) ([]byte, error) {
	cropped := imaging.Crop(img, tile.Rect)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, cropped, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// DominantColor samples the mean color of an 11x11 pixel window around
// a percentage-space point and returns it as a "#rrggbb" hex string.
// Points whose window falls entirely outside the image yield a neutral
// gray.
func DominantColor(img image.Image, centerXPercent, centerYPercent float64) string {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	cx := bounds.Min.X + int(centerXPercent/100*float64(width))
	cy := bounds.Min.Y + int(centerYPercent/100*float64(height))

	const sample = 5
	x1 := max(bounds.Min.X, cx-sample)
	x2 := min(bounds.Max.X, cx+sample+1)
	y1 := max(bounds.Min.Y, cy-sample)
	y2 := min(bounds.Max.Y, cy+sample+1)

	if x1 >= x2 || y1 >= y2 {
		return fallbackColor
	}

	var sumR, sumG, sumB float64
	count := 0
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			sumR += float64(r) / 65535
			sumG += float64(g) / 65535
			sumB += float64(b) / 65535
			count++
		}
	}

	mean := colorful.Color{
		R: sumR / float64(count),
		G: sumG / float64(count),
		B: sumB / float64(count),
	}

	return mean.Hex()
}
