package compute

import "errors"

var (
	ErrInvalidDevice = errors.New("compute tracer: invalid device handle")
	ErrNoSceneData   = errors.New("compute tracer: no scene data uploaded")
	ErrNoBindings    = errors.New("compute tracer: no frame bindings attached")
)
