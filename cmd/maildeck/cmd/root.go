package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/maildeck/maildeck/internal/app"
	"github.com/maildeck/maildeck/internal/mail"
	"github.com/maildeck/maildeck/internal/model"
	"github.com/maildeck/maildeck/internal/send"
	"github.com/maildeck/maildeck/internal/store"
)

var (
	cfgFile string
	dbFile  string
)

var rootCmd = &cobra.Command{
	Use:   "maildeck",
	Short: "Terminal mailbox browser and composer",
	Long: `maildeck is a terminal mail client: browse a local mailbox, read
messages, and compose and send mail over TLS submission without the UI
blocking on the network.`,
	SilenceUsage: true,
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		// A missing or incomplete config file is fatal before the UI starts.
		cfg, err := model.LoadConfig(cfgFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "maildeck:", err)
			return err
		}

		if err := os.MkdirAll(filepath.Dir(dbFile), 0o755); err != nil {
			fmt.Fprintln(os.Stderr, "maildeck: storage unavailable:", err)
			return err
		}

		s, err := store.NewSQLiteStore(dbFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "maildeck: storage unavailable:", err)
			return err
		}
		defer s.Close()

		if err := s.EnsureSeeded(cobraCmd.Context()); err != nil {
			fmt.Fprintln(os.Stderr, "maildeck: storage unavailable:", err)
			return err
		}

		dispatcher := send.NewDispatcher(mail.NewSubmissionMailer(cfg))

		p := tea.NewProgram(app.New(s, dispatcher), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running ui: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", model.DefaultConfigPath(),
		"path to the YAML config file (host, username, password)",
	)
	rootCmd.PersistentFlags().StringVar(
		&dbFile, "db", model.DefaultDBPath(),
		"path to the mailbox database",
	)
}

// Execute runs the root command with a background context.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}
