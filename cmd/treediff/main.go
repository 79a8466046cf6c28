package main

import (
	"os"

	"github.com/pojotools/treediff/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args, os.Stdout))
}
