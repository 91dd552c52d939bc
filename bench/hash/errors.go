package hash

import "errors"

// ErrFinalised is returned by Update when called on a Context that has
// already been finalised via Final. The caller must Init before reusing it.
var ErrFinalised = errors.New("hash: update on finalised context")

// ErrBadHex is returned by FromHex when the input is not exactly 64 hex
// characters, or contains a non-hex character.
var ErrBadHex = errors.New("hash: invalid hex digest")
