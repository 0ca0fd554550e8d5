package tri

import "errors"

// ErrClosed is returned by operations on a closed State.
var ErrClosed = errors.New("tri: state closed")
