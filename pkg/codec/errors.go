package codec

import "errors"

var (
	// ErrCorrupted indicates the checksum of a received frame doesn't match.
	ErrCorrupted = errors.New("frame corrupted")
	// ErrEmptyFrame indicates a frame without even the checksum byte.
	// It's a protocol violation rather than a detected corruption.
	ErrEmptyFrame = errors.New("empty frame")
	// ErrEmptyKey indicates the key material is empty.
	ErrEmptyKey = errors.New("empty key")
)
