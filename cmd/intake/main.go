package main

import (
	"github.com/NVIDIA/asset-intake/pkg/cli"
)

func main() {
	cli.Execute()
}
