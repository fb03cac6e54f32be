//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "bin/glray"

// Default target to run when none is specified.
var Default = Build

// Build compiles the glray binary into bin/.
func Build() error {
	return sh.RunV("go", "build", "-o", binary, "./cmd/glray")
}

// Test runs the test suite with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Bench runs the render and math benchmarks.
func Bench() error {
	return sh.RunV("go", "test", "-run", "^$", "-bench", ".", "./pkg/render/", "./pkg/math3d/")
}

// Demo renders every scene under examples/scenes into out/.
func Demo() error {
	mg.Deps(Build)

	scenes, err := filepath.Glob("examples/scenes/*.toml")
	if err != nil {
		return err
	}
	if err := os.MkdirAll("out", 0o755); err != nil {
		return err
	}
	for _, scene := range scenes {
		name := filepath.Base(scene)
		name = name[:len(name)-len(filepath.Ext(name))]
		out := filepath.Join("out", name+".bmp")
		depth := filepath.Join("out", name+"_depth.bmp")
		if err := sh.RunV(binary, "render", scene, "-o", out, "--depth", depth); err != nil {
			return fmt.Errorf("render %s: %w", scene, err)
		}
	}
	return nil
}

// Clean removes build and demo output.
func Clean() error {
	for _, dir := range []string{"bin", "out"} {
		if err := sh.Rm(dir); err != nil {
			return err
		}
	}
	return nil
}
