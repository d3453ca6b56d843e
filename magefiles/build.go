//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "itemlists"
	binaryDir  = "bin"
	cmdDir     = "./cmd/itemlists"
)

// Build compiles the itemlists binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", binaryPath(), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, binaryPath())
}

// Demo seeds a scratch store under bin/demo with the jsonl backend and
// exports every built-in list as Markdown.
func Demo() error {
	mg.Deps(Build)
	root := filepath.Join(binaryDir, "demo")
	if err := os.RemoveAll(root); err != nil {
		return err
	}
	bin := binaryPath()
	global := []string{
		"--config-dir", filepath.Join(root, "config"),
		"--data-dir", filepath.Join(root, "data"),
		"--backend", "jsonl",
	}
	run := func(args ...string) error {
		return sh.RunV(bin, append(global, args...)...)
	}

	if err := run("init"); err != nil {
		return err
	}
	if err := run("list"); err != nil {
		return err
	}
	for _, title := range []string{"Venture City Items", "Tavern Rumors", "Starship Malfunctions"} {
		if err := run("export", title, "--dir", filepath.Join(root, "export")); err != nil {
			return fmt.Errorf("export %q: %w", title, err)
		}
	}
	return run("roll", "Tavern Rumors")
}

func binaryPath() string {
	return filepath.Join(binaryDir, binaryName)
}
