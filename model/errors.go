package model

import "errors"

// ErrMalformedInput covers missing parts and parts that yield zero
// notes. Wrap it with context at the call site.
var ErrMalformedInput = errors.New("malformed input")
