package main

import (
	"os"

	"github.com/maildeck/maildeck/cmd/maildeck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
