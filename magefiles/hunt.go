//go:build mage

package main

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// Hunt builds the CLI and runs a search-and-enrich pass with the
// configured keywords.
func Hunt() error {
	mg.Deps(Build)
	cmd := exec.Command(filepath.Join(binDir, binName), "hunt")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
