//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "pinyinify"

// Default target to run when none is specified
var Default = Build

// Build builds the pinyinify binary
func Build() error {
	fmt.Println("Building", binary)
	return sh.RunV("go", "build", "-o", binary, "./cmd/pinyinify")
}

// Install installs pinyinify into GOPATH/bin
func Install() error {
	return sh.RunV("go", "install", "./cmd/pinyinify")
}

// Test runs all tests with the race detector
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Lint runs go vet
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs lint and tests
func Check() {
	mg.SerialDeps(Lint, Test)
}

// Clean removes the built binary
func Clean() error {
	return os.RemoveAll(binary)
}
