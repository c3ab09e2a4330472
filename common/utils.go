package common

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// SliceToBytes converts a slice of plain values to a byte slice for GPU buffer uploads.
// The returned slice shares memory with the input.
//
// Parameters:
//   - data: source slice of any fixed-size type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(unsafe.Sizeof(zero))*len(data))
}

// PutFloat32s writes values into buf as little-endian float32s starting at offset.
// buf must have room for 4*len(values) bytes past offset.
//
// Parameters:
//   - buf: destination byte buffer
//   - offset: byte offset of the first value
//   - values: the floats to encode
func PutFloat32s(buf []byte, offset int, values []float32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[offset+i*4:], math.Float32bits(v))
	}
}
