//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds the testbed scene once into testbed/out.
func (Run) Demo() error {
	mg.Deps(Build.Binary)
	fmt.Println("Run demo...")
	if _, err := executeCmd("../bin/voxgrid", withArgs("build", "-config", "voxgrid.toml"), withDir("testbed"), withStream()); err != nil {
		return err
	}
	return nil
}

// Rebuilds the testbed scene every time testbed/voxgrid.toml changes.
func (Run) Watch() error {
	mg.Deps(Build.Binary)
	if _, err := executeCmd("../bin/voxgrid", withArgs("watch", "-config", "voxgrid.toml"), withDir("testbed"), withStream()); err != nil {
		return err
	}
	return nil
}
