package life

import "errors"

var (
	// ErrInvalidParams is returned when shape constants, radius or speed break the force law contract
	ErrInvalidParams = errors.New("invalid simulation parameters")
	// ErrClassOutOfRange is returned when a particle carries a class id outside the current palette
	ErrClassOutOfRange = errors.New("color class out of range")
	// ErrInvalidPalette is returned for empty or non-square behavior matrices
	ErrInvalidPalette = errors.New("invalid palette")
	// ErrInvalidRange is returned for malformed sampling ranges
	ErrInvalidRange = errors.New("invalid range")
)
