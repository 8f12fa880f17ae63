package main

import (
	"log"
	"os"

	"github.com/bountylens/bountylens/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}
