package main

import (
	"os"

	"github.com/subodh556/AI-Teacher-sub000/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
