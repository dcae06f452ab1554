package main

import (
	"os"

	"github.com/splitledger/splitledger/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
