//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Compiles the debug draw shaders to SPIR-V.
func (Build) Shaders() error {
	if _, err := executeCmd("glslc", withArgs("shaders/debugdraw.vert", "-o", "shaders/debugdraw.vert.spv"), withStream()); err != nil {
		return err
	}
	if _, err := executeCmd("glslc", withArgs("shaders/debugline.vert", "-o", "shaders/debugline.vert.spv"), withStream()); err != nil {
		return err
	}
	if _, err := executeCmd("glslc", withArgs("shaders/debugdraw.frag", "-o", "shaders/debugdraw.frag.spv"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the test suite.
func (Build) Test() error {
	if _, err := executeCmd("go", withArgs("test", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs go vet over the module.
func (Build) Vet() error {
	if _, err := executeCmd("go", withArgs("vet", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}
