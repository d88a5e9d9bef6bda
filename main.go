package main

import (
	"os"

	"github.com/mellow-bot/mellow/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
