package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// instanceStructSuffix marks a vertex input struct as per-instance data.
const instanceStructSuffix = "Instance"

// wgslVertexFormatMap maps WGSL attribute types to their wgpu vertex format and byte size
var wgslVertexFormatMap = map[string]vertexFormatInfo{
	"f32":       {wgpu.VertexFormatFloat32, 4},
	"vec2f":     {wgpu.VertexFormatFloat32x2, 8},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8},
	"vec3f":     {wgpu.VertexFormatFloat32x3, 12},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12},
	"vec4f":     {wgpu.VertexFormatFloat32x4, 16},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16},
	"u32":       {wgpu.VertexFormatUint32, 4},
	"vec2<u32>": {wgpu.VertexFormatUint32x2, 8},
	"vec4<u32>": {wgpu.VertexFormatUint32x4, 16},
	"i32":       {wgpu.VertexFormatSint32, 4},
	"vec4<i32>": {wgpu.VertexFormatSint32x4, 16},
}

// wgslTextureDimMap maps sampled texture base names to their view dimension
var wgslTextureDimMap = map[string]wgpu.TextureViewDimension{
	"texture_2d":       wgpu.TextureViewDimension2D,
	"texture_2d_array": wgpu.TextureViewDimension2DArray,
	"texture_cube":     wgpu.TextureViewDimensionCube,
	"texture_3d":       wgpu.TextureViewDimension3D,
	"texture_depth_2d": wgpu.TextureViewDimension2D,
}

// wgslSampleTypeMap maps the scalar parameter of a sampled texture to its sample type
var wgslSampleTypeMap = map[string]wgpu.TextureSampleType{
	"f32": wgpu.TextureSampleTypeFloat,
	"i32": wgpu.TextureSampleTypeSint,
	"u32": wgpu.TextureSampleTypeUint,
}

var (
	// structBlockRegex captures a struct name and its body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// locationRegex captures N from @location(N)
	locationRegex = regexp.MustCompile(`@location\((\d+)\)`)

	// builtinRegex matches any @builtin(...) attribute
	builtinRegex = regexp.MustCompile(`@builtin\(\w+\)`)

	// fieldRegex skips leading attributes and captures a member name and type
	fieldRegex = regexp.MustCompile(`^(?:@\w+\([^)]*\)\s*)*(\w+)\s*:\s*(.+)$`)

	// vertexEntryRegex captures the name of the first @vertex function
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)

	// fragmentEntryRegex captures the name of the first @fragment function
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding, optional address space, name and type from
	// declarations such as: @group(0) @binding(0) var<uniform> camera: CameraUniform;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// parseVertexLayouts builds one buffer layout per vertex input struct, in declaration order.
// A vertex input struct has at least one @location member and no @builtin member, which
// separates inputs from the vertex output struct. Structs with an unmapped member type are skipped.
//
// Parameters:
//   - source: WGSL source with comments stripped
//
// Returns:
//   - []wgpu.VertexBufferLayout: layouts indexed by vertex buffer slot
func parseVertexLayouts(source string) []wgpu.VertexBufferLayout {
	var layouts []wgpu.VertexBufferLayout
	for _, ps := range parseStructBlocks(source) {
		if !isVertexInputStruct(ps) {
			continue
		}
		layout, ok := buildVertexBufferLayout(ps)
		if !ok {
			continue
		}
		layouts = append(layouts, layout)
	}
	return layouts
}

// parseBindGroupLayouts collects every @group/@binding declaration into layout descriptors.
// Entries are sorted by binding. Uniform and storage buffers get MinBindingSize from the bound type.
//
// Parameters:
//   - source: WGSL source with comments stripped
//   - visibility: the shader stages applied to every entry
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
//   - map[int]map[int]string: variable names keyed by group and binding
func parseBindGroupLayouts(source string, visibility wgpu.ShaderStage) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]string) {
	groups := make(map[int][]wgpu.BindGroupLayoutEntry)
	varNames := make(map[int]map[int]string)
	structSizes := computeStructSizes(parseStructBlocks(source))

	for _, m := range bindGroupDeclRegex.FindAllStringSubmatch(source, -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		addressSpace := strings.TrimSpace(m[3])
		typeName := strings.TrimSpace(m[5])

		entry := classifyResource(uint32(binding), visibility, addressSpace, typeName)
		if entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			if layout, ok := resolveTypeLayout(typeName, structSizes); ok {
				entry.Buffer.MinBindingSize = layout.size
			}
		}
		groups[group] = append(groups[group], entry)

		if varNames[group] == nil {
			varNames[group] = make(map[int]string)
		}
		varNames[group][binding] = strings.TrimSpace(m[4])
	}

	result := make(map[int]wgpu.BindGroupLayoutDescriptor, len(groups))
	for g, entries := range groups {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Binding < entries[j].Binding
		})
		result[g] = wgpu.BindGroupLayoutDescriptor{Entries: entries}
	}
	return result, varNames
}

// parseEntryPoint returns the first function name captured by re, or an empty string.
func parseEntryPoint(source string, re *regexp.Regexp) string {
	if m := re.FindStringSubmatch(source); m != nil {
		return m[1]
	}
	return ""
}

// parseStructBlocks returns every struct block in declaration order.
func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))
	for _, m := range matches {
		structs = append(structs, parsedStruct{
			name:   m[1],
			fields: parseStructFields(m[2]),
		})
	}
	return structs
}

// parseStructFields splits a struct body into members with their attributes.
func parseStructFields(body string) []parsedField {
	members := splitAtTopLevelCommas(body)
	fields := make([]parsedField, 0, len(members))
	for _, member := range members {
		member = strings.TrimSpace(member)
		if member == "" {
			continue
		}
		fm := fieldRegex.FindStringSubmatch(member)
		if fm == nil {
			continue
		}
		field := parsedField{
			name:      fm[1],
			typeName:  strings.TrimSpace(fm[2]),
			location:  -1,
			isBuiltin: builtinRegex.MatchString(member),
		}
		if lm := locationRegex.FindStringSubmatch(member); lm != nil {
			if loc, err := strconv.Atoi(lm[1]); err == nil {
				field.location = loc
			}
		}
		fields = append(fields, field)
	}
	return fields
}

// isVertexInputStruct reports whether ps has a @location member and no @builtin member.
func isVertexInputStruct(ps parsedStruct) bool {
	hasLocation := false
	for _, f := range ps.fields {
		if f.isBuiltin {
			return false
		}
		if f.location >= 0 {
			hasLocation = true
		}
	}
	return hasLocation
}

// buildVertexBufferLayout packs the struct's members tightly in declaration order.
// Returns false if a member type has no vertex format.
func buildVertexBufferLayout(ps parsedStruct) (wgpu.VertexBufferLayout, bool) {
	attrs := make([]wgpu.VertexAttribute, 0, len(ps.fields))
	var offset uint64
	for _, f := range ps.fields {
		info, ok := wgslVertexFormatMap[f.typeName]
		if !ok || f.location < 0 {
			return wgpu.VertexBufferLayout{}, false
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         info.format,
			Offset:         offset,
			ShaderLocation: uint32(f.location),
		})
		offset += info.size
	}

	stepMode := wgpu.VertexStepModeVertex
	if strings.HasSuffix(ps.name, instanceStructSuffix) {
		stepMode = wgpu.VertexStepModeInstance
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    stepMode,
		Attributes:  attrs,
	}, true
}
