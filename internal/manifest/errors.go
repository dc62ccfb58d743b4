package manifest

import "errors"

// ErrInvalidItem is returned when an item violates the input contract:
// missing or duplicate identifier, unknown category, negative or non-finite
// weight/volume, or utility inputs outside their declared ranges.
var ErrInvalidItem = errors.New("invalid item")
