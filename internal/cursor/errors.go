package cursor

import "errors"

var (
	// ErrSelectorNotFound is returned when a selector target is absent or
	// invisible past its wait timeout, or disappears while being resolved.
	ErrSelectorNotFound = errors.New("cursor: selector not present in DOM")
	// ErrInvalidParameter is returned before any surface call for malformed options.
	ErrInvalidParameter = errors.New("cursor: invalid parameter")
	// ErrViewportUnresolvable is returned when an element cannot be scrolled
	// fully into the viewport within the configured bounds.
	ErrViewportUnresolvable = errors.New("cursor: element cannot be scrolled into view")
	// ErrClosed is returned by actions issued after Close.
	ErrClosed = errors.New("cursor: closed")
)
