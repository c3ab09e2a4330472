//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type Run mg.Namespace

// Runs the example on the plain surface.
func (Run) Plain() error {
	return runExample()
}

// Runs the example with frames bracketed by the simulated XR runtime.
func (Run) XR() error {
	return runExample("--xr")
}

// Runs the example with the given TOML config, reloading it while running.
func (Run) Config(path string) error {
	return runExample("--config", path)
}

func runExample(args ...string) error {
	mg.Deps(Build.Example)
	fmt.Println("Run instanced_blit...")
	return sh.RunWithV(cgoEnv(), "bin/instanced_blit", args...)
}
