//go:build mage

package main

// cgoEnv enables cgo, which the GLFW and wgpu bindings require.
func cgoEnv() map[string]string {
	return map[string]string{"CGO_ENABLED": "1"}
}
