//go:build mage

// Package main provides build targets for tides using Mage.
//
// Usage:
//
//	mage build      Compile the tides binary to bin/
//	mage test       Run all tests with the race detector
//	mage golden     Regenerate golden files for rendered tool output
//	mage lint       Run golangci-lint
//	mage install    Install tides to GOPATH/bin
//	mage clean      Remove build artifacts
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "tides"
	binaryDir  = "bin"
	cmdDir     = "./cmd/tides"
	versionVar = "github.com/tides-mcp/tides/internal/server.Version"
)

// ldflags stamps the version from TIDES_VERSION or the nearest git tag.
func ldflags() string {
	version := os.Getenv("TIDES_VERSION")
	if version == "" {
		out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
		if err != nil {
			version = "dev"
		} else {
			version = strings.TrimPrefix(strings.TrimSpace(out), "v")
		}
	}
	return "-s -w -X " + versionVar + "=" + version
}

// Build compiles the tides binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs all tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Golden rewrites the golden files under internal/tools/testdata.
func Golden() error {
	return sh.RunV("go", "test", "./internal/tools/...", "-run", "Golden", "-update")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Install installs tides to GOPATH/bin.
func Install() error {
	mg.Deps(Test)
	return sh.RunV("go", "install", "-ldflags", ldflags(), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll(binaryDir)
}
