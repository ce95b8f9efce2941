package main

import (
	"os"

	"github.com/keshon/v0id/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
