package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/mdview/internal/document"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate Markdown files and report syntax issues",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false
			for _, path := range args {
				res, err := loadFile(cmd.Context(), path)
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
					failed = true
					continue
				}
				for _, se := range res.Model.SyntaxErrors {
					fmt.Printf("%s:%d: %s: %s (%s)\n", path, se.Line, se.Severity, se.Message, se.Kind)
					if se.Severity == document.SeverityError {
						failed = true
					}
				}
				if len(res.Model.SyntaxErrors) == 0 {
					fmt.Printf("%s: ok\n", path)
				}
			}
			if failed {
				return fmt.Errorf("validation failed")
			}
			return nil
		},
	}
}
