package core

import (
	"errors"
)

var (
	ErrZeroDivisions      = errors.New("grid divisions must be greater than zero on every axis")
	ErrIndexOutOfRange    = errors.New("triangle index references a vertex out of range")
	ErrGridTooLarge       = errors.New("grid has too many voxels")
	ErrEntryOverflow      = errors.New("voxel entry count reached the end-of-list sentinel")
	ErrInvalidVoxelData   = errors.New("invalid voxel data")
	ErrInvalidMagic       = errors.New("invalid resource magic number")
	ErrUnsupportedVersion = errors.New("unsupported resource version")
	ErrChecksumMismatch   = errors.New("resource checksum mismatch")
	ErrCorruptResource    = errors.New("corrupt resource")
	ErrInvalidConfig      = errors.New("invalid configuration")
)
