// Package main provides build targets for recipevault using Mage.
//
// Usage:
//
//	mage build      Compile recipevault to bin/
//	mage test       Run all tests
//	mage testRace   Run all tests with the race detector
//	mage cover      Write coverage.out and print a per-function summary
//	mage lint       Run golangci-lint
//	mage clean      Remove build artifacts
//	mage install    Install recipevault to GOPATH/bin
//	mage stats      Print Go lines of code
package main

const (
	binGo      = "go"
	binLint    = "golangci-lint"
	binaryName = "recipevault"
	binaryDir  = "bin"
	cmdDir     = "./cmd/recipevault"
	modulePath = "github.com/mesh-intelligence/recipevault"
	coverFile  = "coverage.out"
)
