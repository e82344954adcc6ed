// Command primecalc lists, counts or exports the primes below N.
package main

import (
	"context"
	"os"

	"github.com/agbru/primecalc/internal/app"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	if app.HasVersionFlag(args[1:]) {
		app.PrintVersion(os.Stdout)
		return 0
	}
	a, err := app.New(args, os.Stderr)
	if err != nil {
		return app.ExitCodeForError(err)
	}
	return a.Run(context.Background(), os.Stdout)
}
