package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zurustar/funk/pkg/app"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the application and returns the process exit status.
// Funk errors have already been reported by the application.
func run(args []string, stderr io.Writer) int {
	application := app.New()
	err := application.Run(args)
	if err == nil {
		return app.ExitOK
	}

	var exitErr *app.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return app.ExitSetup
}
