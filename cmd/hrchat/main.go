package main

import (
	"context"
	"log"
	"os"
)

func main() {
	logger := log.New(os.Stderr, "", 0)

	app := newApp()
	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatal(err)
	}
}
