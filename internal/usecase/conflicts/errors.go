package conflicts

import "errors"

// ErrInternal is returned when the detector cannot query storage.
var ErrInternal = errors.New("conflicts: internal error")
