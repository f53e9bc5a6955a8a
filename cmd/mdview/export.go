package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/mdview/internal/config"
	"github.com/dgallion1/mdview/internal/render"
)

func newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Export a Markdown file as sanitized HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			html, err := render.NewHTMLRenderer(config.Load()).Render([]byte(res.Model.Styled.Text))
			if err != nil {
				return err
			}
			if out == "" {
				_, err = os.Stdout.Write(html)
				return err
			}
			return os.WriteFile(out, html, 0o644)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write HTML to a file instead of stdout")
	return cmd
}
