package main

import (
	"os"

	"github.com/lilianna-roll/issuance/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
