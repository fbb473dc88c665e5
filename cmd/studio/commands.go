package main

import (
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/phrazzld/flashforge/internal/config"
	"github.com/phrazzld/flashforge/internal/platform/logger"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "flashforge",
		Short:         "Turn notes into flashcards",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfigAndLogger()
			if err != nil {
				return err
			}

			s, err := newStudio(cfg, log)
			if err != nil {
				return err
			}
			defer s.close()

			app, err := s.app()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			_, err = tea.NewProgram(app.WithContext(ctx), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if err != nil {
				return fmt.Errorf("studio exited: %w", err)
			}
			return nil
		},
	}
	root.AddCommand(newWhoamiCmd(), newLogoutCmd())
	return root
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfigAndLogger()
			if err != nil {
				return err
			}
			s, err := newStudio(cfg, log)
			if err != nil {
				return err
			}
			defer s.close()
			return s.whoami(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfigAndLogger()
			if err != nil {
				return err
			}
			s, err := newStudio(cfg, log)
			if err != nil {
				return err
			}
			defer s.close()
			if err := s.sessions.SignOut(cmd.Context()); err != nil {
				return fmt.Errorf("sign out failed: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return err
		},
	}
}

// loadConfigAndLogger logs to the configured file only; the terminal belongs
// to the UI.
func loadConfigAndLogger() (*config.StudioConfig, *slog.Logger, error) {
	cfg, err := config.LoadStudio()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(logger.LoggerConfig{
		Level:    cfg.LogLevel,
		FilePath: cfg.LogFile,
		Output:   io.Discard,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("studio configuration loaded", "server_url", cfg.ServerURL, "export_dir", cfg.ExportDir)
	return cfg, log, nil
}
