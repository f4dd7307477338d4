package renderer

import "errors"

var (
	ErrNoTracers         = errors.New("renderer: no tracers attached")
	ErrSceneNotDefined   = errors.New("renderer: no scene defined")
	ErrCameraNotDefined  = errors.New("renderer: no camera defined")
	ErrInvalidFrameDims  = errors.New("renderer: frame dimensions must be non-zero")
	ErrInterrupted       = errors.New("renderer: interrupted while rendering")
	ErrSchedulerRowCount = errors.New("renderer: scheduled block rows do not cover the frame")
)
