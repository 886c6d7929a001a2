package main

import (
	"os"

	"github.com/v-danh/typelattice/pkg/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
