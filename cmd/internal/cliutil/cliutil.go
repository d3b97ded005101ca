// Package cliutil provides shared CLI utilities for the fsd command.
package cliutil

import (
	"fmt"
	"io"
	"os"
)

// GetOutput opens the output file or returns stdout.
func GetOutput(outputFile string, stdout io.Writer) (io.Writer, func() error, error) {
	if outputFile == "" || outputFile == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// PrintError writes a formatted error message to w.
func PrintError(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "error: "+format+"\n", args...)
}
