//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the orbit testbed with the default configuration.
func (Run) Testbed() error {
	mg.Deps(Test.Vet)
	fmt.Println("Run testbed...")
	if _, err := executeCmd("go", withArgs("run", "main.go"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the orbit testbed with resin.toml, reloading it on change.
func (Run) Configured() error {
	fmt.Println("Run testbed with resin.toml...")
	if _, err := executeCmd("go", withArgs("run", "main.go", "-config", "resin.toml"), withStream()); err != nil {
		return err
	}
	return nil
}
