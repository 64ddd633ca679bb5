package main

import (
	"log"

	"github.com/NVIDIA/asset-intake/pkg/api"
)

func main() {
	if err := api.Serve(); err != nil {
		log.Fatal(err)
	}
}
