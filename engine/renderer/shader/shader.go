package shader

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// SceneSource is the WGSL for the instanced triangle pass.
//
//go:embed assets/scene.wgsl
var SceneSource string

// BlitSource is the WGSL for the full-screen blit pass.
//
//go:embed assets/blit.wgsl
var BlitSource string

// ErrMissingEntryPoint is returned when a source lacks a @vertex or @fragment function.
var ErrMissingEntryPoint = errors.New("shader: missing entry point")

// shader is the implementation of the Shader interface.
// It holds the reflected layout data required for pipeline creation and bind group wiring.
type shader struct {
	key                        string
	source                     string
	vertexEntryPoint           string
	fragmentEntryPoint         string
	vertexLayouts              []wgpu.VertexBufferLayout
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	module                     *wgpu.ShaderModuleDescriptor
}

// Shader is a parsed WGSL module holding one vertex and one fragment entry point.
// Vertex buffer layouts and bind group layouts are reflected from the source so the
// pipeline and the buffers always agree with the shader text.
type Shader interface {
	// Key retrieves the unique identifier for this shader, also used as the module label.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// VertexEntryPoint returns the name of the @vertex function.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main")
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the @fragment function.
	//
	// Returns:
	//   - string: the entry point name (e.g. "fs_main")
	FragmentEntryPoint() string

	// VertexLayouts returns one buffer layout per vertex input struct, in declaration order.
	// Index i is the layout for vertex buffer slot i. Structs whose name ends in "Instance"
	// use the instance step mode.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the layouts in slot order
	VertexLayouts() []wgpu.VertexBufferLayout

	// BindGroupLayoutDescriptor retrieves the layout descriptor for a bind group index.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, or an empty descriptor if the group is unused
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves all parsed bind group layout descriptors keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the WGSL variable name declared at a group and binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if not declared
	BindGroupVarName(group, binding int) string

	// Module returns the descriptor used to create the GPU shader module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader parses WGSL source into a Shader.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - source: the WGSL source code
//
// Returns:
//   - Shader: the parsed shader
//   - error: ErrMissingEntryPoint if the source lacks a vertex or fragment function
func NewShader(key, source string) (Shader, error) {
	cleaned := stripComments(source)
	s := &shader{
		key:                key,
		source:             source,
		vertexEntryPoint:   parseEntryPoint(cleaned, vertexEntryRegex),
		fragmentEntryPoint: parseEntryPoint(cleaned, fragmentEntryRegex),
		vertexLayouts:      parseVertexLayouts(cleaned),
		module: &wgpu.ShaderModuleDescriptor{
			Label: key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
				Code: source,
			},
		},
	}
	if s.vertexEntryPoint == "" || s.fragmentEntryPoint == "" {
		return nil, fmt.Errorf("%w in %s", ErrMissingEntryPoint, key)
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(cleaned, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment)
	return s, nil
}

// NewSceneShader parses the embedded scene shader.
func NewSceneShader() (Shader, error) {
	return NewShader("scene", SceneSource)
}

// NewBlitShader parses the embedded blit shader.
func NewBlitShader() (Shader, error) {
	return NewShader("blit", BlitSource)
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexEntryPoint() string {
	return s.vertexEntryPoint
}

func (s *shader) FragmentEntryPoint() string {
	return s.fragmentEntryPoint
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	return s.bindingVarNames[group][binding]
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}
