//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type Build mg.Namespace

// Compiles every package and vets the module.
func (Build) All() error {
	if err := sh.RunV("go", "build", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "vet", "./...")
}

// Builds the instanced blit example into bin/.
func (Build) Example() error {
	return sh.RunWith(cgoEnv(), "go", "build", "-o", "bin/instanced_blit", "examples/instanced_blit.go")
}

type Test mg.Namespace

// Runs the unit tests. Tests that need a GPU or a display are skipped unconditionally.
func (Test) Unit() error {
	return sh.RunV("go", "test", "-count=1", "./...")
}

// Runs the unit tests under the race detector.
func (Test) Race() error {
	return sh.RunWith(cgoEnv(), "go", "test", "-race", "-count=1", "./...")
}
