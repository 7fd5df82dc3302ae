package main

import (
	"os"

	"github.com/plaid-labs/plaid-vision/internal/cli"
)

func main() {
	os.Exit(cli.ExitCode(cli.Execute()))
}
