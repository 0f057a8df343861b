package main

import (
	"os"

	"storyfeed/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
