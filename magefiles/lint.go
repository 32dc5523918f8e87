//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os/exec"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binLint = "golangci-lint"

// Vet runs go vet over every package.
func Vet() error {
	return sh.RunV(binGo, "vet", "./...")
}

// Lint runs go vet, then golangci-lint when it is installed.
func Lint() error {
	mg.Deps(Vet)
	if _, err := exec.LookPath(binLint); err != nil {
		fmt.Printf("%s not found on PATH, only go vet was run\n", binLint)
		return nil
	}
	return sh.RunV(binLint, "run", "./...")
}
