package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/clearcase/internal/config"
	"github.com/JaimeStill/clearcase/internal/incidents"
	"github.com/JaimeStill/clearcase/internal/remote"
)

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:           "clearcase",
		Short:         "Scan, organize and process incident notes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(organizeCmd())
	rootCmd.AddCommand(processCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(caseCmd())
	rootCmd.AddCommand(fingerprintCmd())
	rootCmd.AddCommand(categoriesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// readNotes returns the notes in the named file, or stdin when no file is
// given or the name is "-".
func readNotes(cmd *cobra.Command, args []string) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read notes: %w", err)
	}

	notes := string(data)
	if len([]rune(notes)) > incidents.MaxNotesLength {
		return "", incidents.ErrNotesTooLong
	}
	if strings.TrimSpace(notes) == "" {
		return "", incidents.ErrEmptyNotes
	}
	return notes, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// remoteClient returns a client for the hosted functions configured through
// config.toml or CLEARCASE_REMOTE_* variables, or nil when none is set.
func remoteClient(logger *slog.Logger) (*remote.Client, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	if !cfg.Remote.Enabled() {
		return nil, cfg, nil
	}
	return remote.New(cfg.Remote.Client(), logger), cfg, nil
}
