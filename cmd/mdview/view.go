package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dgallion1/mdview/internal/config"
	"github.com/dgallion1/mdview/internal/document"
	"github.com/dgallion1/mdview/internal/pipeline"
	"github.com/dgallion1/mdview/internal/tui"
)

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view FILE",
		Short: "Open a Markdown file in the terminal viewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cfg := config.Load()
			prog := tea.NewProgram(tui.New(res, cfg), tea.WithAltScreen())
			_, err = prog.Run()
			return err
		},
	}
}

// loadFile reads a file and runs it through the document pipeline.
func loadFile(ctx context.Context, path string) (*pipeline.Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, document.NewLoadError(document.FailFileNotFound, err)
		}
		if os.IsPermission(err) {
			return nil, document.NewLoadError(document.FailAccessDenied, err)
		}
		return nil, err
	}

	cfg := config.Load()
	if info.Size() > cfg.MaxDocumentBytes {
		return nil, document.NewLoadError(document.FailFileTooLarge,
			fmt.Errorf("%s is %d bytes, limit is %d", path, info.Size(), cfg.MaxDocumentBytes))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, document.NewLoadError(document.FailAccessDenied, err)
		}
		return nil, err
	}

	ref := document.Reference{
		Path:    path,
		ModTime: info.ModTime(),
		Size:    info.Size(),
	}
	loader := pipeline.NewLoader(cfg, nil, newLogger())
	return loader.Load(ctx, string(data), ref)
}
