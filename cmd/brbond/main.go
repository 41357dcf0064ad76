// Command brbond prices Brazilian federal bonds and builds yield curves from
// JSON input.
//
// Usage:
//
//	brbond price   --input requests.json
//	brbond yield   < requests.json
//	brbond curve   --input vertices.json
//	brbond calendar bdays --start 2025-01-02 --end 2026-01-02
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
)

// errItemsFailed means output was written but at least one item carries an error.
var errItemsFailed = errors.New("one or more items failed")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run returns 0 on success, 1 when any item failed and 2 on usage errors.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdin, stdout, stderr)
	root.SetArgs(args)

	err := root.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errItemsFailed):
		return 1
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprintln(stderr, "Run 'brbond --help' for usage.")
		return 2
	}
}
