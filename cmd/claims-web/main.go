package main

import (
	"fmt"
	"os"

	"claimshape/internal/app"
)

func main() {
	application, err := app.NewApplication()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start claims report server: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		application.Logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
