package main

import (
	"os"

	"github.com/filinghawk-systems/filinghawk/cli/cmd"
	"github.com/filinghawk-systems/filinghawk/cli/pkg/output"
)

func main() {
	if err := cmd.Execute(); err != nil {
		output.Error("%v", err)
		os.Exit(1)
	}
}
