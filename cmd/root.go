package main

import (
	"fmt"
	"log/slog"
	"os"

	"gist/internal/config"

	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfgFile string
	cfg     config.Config
	log     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "gist",
		Short: "Extractive summaries of web pages, videos, channels and documents",
		Long: `gist condenses web pages, RSS / Atom feeds, YouTube transcripts,
public Telegram channels and PDF / TXT documents into extractive summaries.

Example usage:
  gist summarize https://example.com/article         # Summarize one page
  gist summarize --words 80 --file paper.pdf URL     # Mix links and files
  gist bot                                           # Run the Telegram bot`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.init()
		},
	}

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", os.Getenv("CONFIG_FILE"),
		"YAML config file, overrides the environment")

	cmd.AddCommand(newSummarizeCmd(a), newBotCmd(a))

	return cmd
}

func (a *app) init() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a.cfg = cfg
	a.log = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.log)

	return nil
}
