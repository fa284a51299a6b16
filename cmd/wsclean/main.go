// Package main provides the wsclean CLI.
package main

import (
	"os"

	"github.com/rosworks/wsclean/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
