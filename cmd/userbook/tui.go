package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dukerupert/userbook/internal/directory"
	"github.com/dukerupert/userbook/internal/grocery"
	"github.com/dukerupert/userbook/internal/logging"
	"github.com/dukerupert/userbook/internal/tui"
)

func newTUICmd() *cobra.Command {
	var logFile string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run both screens in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// The terminal belongs to the UI; logs go to a file or nowhere.
			var w io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				w = f
			}
			logger := logging.Setup(cfg.LogLevel, cfg.LogFormat, w)

			locale, err := cfg.Language()
			if err != nil {
				return err
			}
			mgr, err := grocery.NewManager(context.Background(), grocery.Config{Locale: locale, Logger: logger})
			if err != nil {
				return err
			}
			defer mgr.Close()

			m := tui.NewModel(tui.Config{
				Fetcher: directory.NewClient(directory.ClientConfig{
					Endpoint: cfg.DirectoryURL,
					Timeout:  cfg.DirectoryTimeout,
				}),
				Manager: mgr,
				Logger:  logger,
			})
			defer m.Close()

			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file while the UI runs")
	return cmd
}
