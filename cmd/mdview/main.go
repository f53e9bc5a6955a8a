package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

func main() {
	root := &cobra.Command{
		Use:   "mdview",
		Short: "Markdown document viewer",
		Long:  "mdview parses, validates and displays Markdown documents,\nin the terminal or over HTTP.",
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline details to stderr")

	root.AddCommand(newViewCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newCheckCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger returns a JSON logger on stderr, silenced unless --verbose.
func newLogger() *slog.Logger {
	if verbose {
		return slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
