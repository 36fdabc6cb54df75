package main

import (
	"os"

	"github.com/abhisek/tbrite/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
