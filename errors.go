package grove

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTimestamp marks an event whose timestamp could not be parsed.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	// ErrUnknownGranularity marks a granularity outside day, week and month.
	ErrUnknownGranularity = errors.New("unknown granularity")
	// ErrAssetsNotReady is returned when composition starts before every
	// required catalog key has resolved.
	ErrAssetsNotReady = errors.New("assets not ready")
	// ErrInvalidGrid marks a non-positive or oversized grid.
	ErrInvalidGrid = errors.New("invalid grid size")
	// ErrAlreadyDisposed is wrapped by ResourceDisposalError on repeated teardown.
	ErrAlreadyDisposed = errors.New("already disposed")
	// ErrCanvasBusy is returned when a surface is acquired while another
	// generation still holds it.
	ErrCanvasBusy = errors.New("canvas still held by previous generation")
	// ErrUnknownModel marks a model key missing from the catalog.
	ErrUnknownModel = errors.New("unknown model key")
)

// MappingError reports an event that cannot be placed on the grid.
type MappingError struct {
	Index int    // position of the event in its batch
	Raw   string // original timestamp text, if known
	Err   error
}

func (e *MappingError) Error() string {
	if e.Raw != "" {
		return fmt.Sprintf("map event %d (%q): %v", e.Index, e.Raw, e.Err)
	}
	return fmt.Sprintf("map event %d: %v", e.Index, e.Err)
}

func (e *MappingError) Unwrap() error { return e.Err }

// AssetLoadError reports a model that failed to load. It is logged by the
// asset cache and never aborts a build.
type AssetLoadError struct {
	Key string
	Err error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("load asset %q: %v", e.Key, e.Err)
}

func (e *AssetLoadError) Unwrap() error { return e.Err }

// CompositionError reports a build step that failed. The generation is
// discarded; no partial scene is returned.
type CompositionError struct {
	Step string
	Err  error
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("compose %s: %v", e.Step, e.Err)
}

func (e *CompositionError) Unwrap() error { return e.Err }

// ResourceDisposalError is returned by a teardown call on a generation that
// is already disposing or disposed. Callers may ignore it.
type ResourceDisposalError struct {
	Generation string
	State      GenerationState
}

func (e *ResourceDisposalError) Error() string {
	return fmt.Sprintf("dispose generation %s: %v (state %s)", e.Generation, ErrAlreadyDisposed, e.State)
}

func (e *ResourceDisposalError) Unwrap() error { return ErrAlreadyDisposed }
