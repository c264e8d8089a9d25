package main

import (
	"os"

	"github.com/quangngonz/mini-cs50x-answer-api/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
