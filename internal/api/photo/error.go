package photos

import "CruxBackend/pkg/response"

var (
	ErrPhotoNotFound        = response.NewError(404, "photo not found")
	ErrDetectedHoldNotFound = response.NewError(404, "detected hold not found")
	ErrNoHoldAtPoint        = response.NewError(404, "no hold at the given point")
	ErrInvalidFileType      = response.NewError(400, "invalid file type")
	ErrFileTooLarge         = response.NewError(400, "file too large")
	ErrInvalidImage         = response.NewError(400, "could not decode image")
	ErrInvalidPoint         = response.NewError(400, "point must be in percentage space (0-100)")
	ErrFailedToUpload       = response.NewError(500, "failed to upload file")
	ErrDetectionFailed      = response.NewError(502, "hold detection failed")
	ErrCreatePhoto          = response.NewError(500, "failed to create photo")
	ErrDeletePhoto          = response.NewError(500, "failed to delete photo")
)
