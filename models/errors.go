package models

import "github.com/ansel1/merry/v2"

// Error taxonomy shared by every mkvmux package. Match with errors.Is.
var (
	// ErrOutOfRange is returned when a track index falls outside the collection.
	ErrOutOfRange = merry.Sentinel("track index out of range")

	// ErrTypeMismatch is returned when a track or file source has no usable shape.
	ErrTypeMismatch = merry.Sentinel("type mismatch")

	// ErrInvalidFormat is returned for malformed timestamps, sizes and split specs.
	ErrInvalidFormat = merry.Sentinel("invalid format")

	// ErrNotFound is returned when a referenced file or track does not exist.
	ErrNotFound = merry.Sentinel("not found")

	// ErrInvalidArgument is returned for values outside an accepted set, such as
	// an unknown ISO639-2 language code.
	ErrInvalidArgument = merry.Sentinel("invalid argument")

	// ErrExternalTool is returned when mkvmerge exits non-zero or prints output
	// that cannot be parsed.
	ErrExternalTool = merry.Sentinel("external tool failure")
)
