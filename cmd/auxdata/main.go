// Command auxdata inspects, verifies and converts the auxiliary data of
// binary IR files.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/auxdata/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	var exitErr *cli.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		// Cobra usage errors are not reported by the commands themselves.
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
