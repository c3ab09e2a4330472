package shader

import "github.com/cogentcore/webgpu/wgpu"

// vertexFormatInfo holds the wgpu vertex format and its byte size for offset calculation
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// wgslTypeLayout holds the byte size and alignment of a WGSL host-shareable type.
// Used to compute MinBindingSize for buffer bindings.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField is one member of a WGSL struct. location is -1 when the field has no @location.
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct is a WGSL struct block in declaration order
type parsedStruct struct {
	name   string
	fields []parsedField
}
