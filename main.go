package main

import (
	"os"

	"github.com/courseforge/courseforge/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
