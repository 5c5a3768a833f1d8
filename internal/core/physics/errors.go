package physics

import "errors"

// Configuration errors. These surface at registration time or on the first
// tick that hits them; they are never swallowed.
var (
	ErrUnsupportedPair = errors.New("no separating-vector routine registered for shape pair")
	ErrNilTarget       = errors.New("collision work needs a non-nil target")
	ErrNilCallback     = errors.New("collision work needs a non-nil callback")
	ErrUnknownWork     = errors.New("collision work not registered")
	ErrInvalidExtent   = errors.New("shape extent must not be negative")
	ErrNilTransform    = errors.New("shape needs a transform")
	ErrNotAShape       = errors.New("component is not a shape")
)
