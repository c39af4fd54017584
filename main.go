package main

import (
	"github.com/dwops/batchgate/cmd"
)

func main() {
	cmd.Execute()
}
