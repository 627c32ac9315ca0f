package asset

import (
	"errors"
	"fmt"
)

// ErrNotLoaded is returned by operations that require a loaded model,
// such as node lookup, when invoked before loading completes.
var ErrNotLoaded = errors.New("asset: model is not loaded")

// ErrDestroyed is returned by operations on a destroyed model.
var ErrDestroyed = errors.New("asset: model has been destroyed")

// ResourceError is the fatal error produced when an external resource
// fails to fetch. It names the resource kind (buffer, shader, image)
// and path; the owning model permanently stalls in the loading state.
type ResourceError struct {
	Kind string
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("asset: failed to load %s %q: %v", e.Kind, e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}
