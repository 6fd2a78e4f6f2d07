package screenshot

import "errors"

// ErrEmptyImage is returned when a screenshot blob holds no data at all.
var ErrEmptyImage = errors.New("empty image data")
