package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/clearcase/internal/categories"
	"github.com/JaimeStill/clearcase/internal/incidents"
	"github.com/JaimeStill/clearcase/internal/organize"
	"github.com/JaimeStill/clearcase/internal/remote"
	"github.com/JaimeStill/clearcase/internal/scan"
	"github.com/JaimeStill/clearcase/internal/structure"
	"github.com/JaimeStill/clearcase/internal/voice"
)

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [file]",
		Short: "Print the first time and case number found in the notes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, err := readNotes(cmd, args)
			if err != nil {
				return err
			}
			return printJSON(cmd, scan.QuickScan(notes))
		},
	}
}

func parseCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Run the fast scan and the structured parse",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, err := readNotes(cmd, args)
			if err != nil {
				return err
			}

			pipeline := organize.NewPipeline(
				structure.Local{},
				organize.Direct{},
				organize.Config{Timeout: timeout},
				newLogger(),
			)
			return printJSON(cmd, pipeline.Run(cmd.Context(), notes))
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "parse timeout")
	return cmd
}

func organizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "organize [file]",
		Short: "Split notes into incidents with the remote organizer",
		Long: "Split notes into incidents with the remote organizer configured by " +
			"CLEARCASE_REMOTE_BASE_URL. Without one, or when it fails, the notes " +
			"are parsed locally as a single incident.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, err := readNotes(cmd, args)
			if err != nil {
				return err
			}

			logger := newLogger()
			client, _, err := remoteClient(logger)
			if err != nil {
				return err
			}

			resp := organize.OrganizeResponse{}
			found, err := organizeRemote(cmd.Context(), client, notes)
			if err == nil {
				resp.Incidents = structure.AdaptAll(found)
			} else {
				logger.Warn("remote organize unavailable, parsing locally", "error", err)
				resp.Incidents = []structure.Incident{structure.ParseNotes(notes)}
				resp.Fallback = true
				resp.Error = err.Error()
			}

			return printJSON(cmd, resp)
		},
	}
}

func organizeRemote(ctx context.Context, client *remote.Client, notes string) ([]remote.APIIncident, error) {
	if client == nil {
		return nil, remote.ErrNotConfigured
	}
	found, err := client.Organize(ctx, notes)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, structure.ErrNoIncidents
	}
	return found, nil
}

type processOutput struct {
	Incident incidents.ProcessedIncident `json:"incident"`
	Issues   []string                    `json:"issues,omitempty"`
}

func processCmd() *cobra.Command {
	var (
		title       string
		perspective string
		reference   string
		category    string
	)

	cmd := &cobra.Command{
		Use:   "process [file]",
		Short: "Parse notes and produce a processed incident record",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, err := readNotes(cmd, args)
			if err != nil {
				return err
			}

			submit := incidents.SubmitCommand{Title: title, RawNotes: notes, Perspective: perspective}
			if err := submit.Validate(); err != nil {
				return err
			}

			var ref time.Time
			if reference != "" {
				if ref, err = time.ParseInLocation("2006-01-02", reference, time.Local); err != nil {
					return fmt.Errorf("invalid reference date %q: %w", reference, err)
				}
			}

			logger := newLogger()
			client, cfg, err := remoteClient(logger)
			if err != nil {
				return err
			}

			var improver voice.Improver
			if client != nil && cfg.Remote.Grammar {
				improver = client
			}

			processor := incidents.NewProcessor(
				categories.NewCache(categories.NewMemoryStore(), logger),
				voice.New(improver, logger),
				logger,
			)

			draft := incidents.DraftFrom(structure.ParseNotes(notes))
			draft.Title = title
			if category != "" {
				draft.Category = category
			}

			outcome := processor.Process(cmd.Context(), draft, incidents.Options{
				Perspective: voice.ParsePerspective(perspective),
				RawNotes:    notes,
				Reference:   ref,
			})

			out := processOutput{Incident: outcome.Incident}
			for _, issue := range outcome.Issues {
				out.Issues = append(out.Issues, issue.Error())
			}
			return printJSON(cmd, out)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "incident title")
	cmd.Flags().StringVarP(&perspective, "perspective", "p", "first", "narrative voice: first or third")
	cmd.Flags().StringVar(&reference, "reference", "", "reference date (YYYY-MM-DD) for relative and year-less dates")
	cmd.Flags().StringVarP(&category, "category", "c", "", "proposed category")
	return cmd
}

func watchCmd() *cobra.Command {
	var (
		debounce time.Duration
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Organize notes from stdin as they are typed",
		Long: "Read notes from stdin one line at a time. Every line updates the notes " +
			"and prints the fast scan; once input pauses for the debounce delay the " +
			"structured parse is printed. End of input forces a final parse.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			pipeline := organize.NewPipeline(
				structure.Local{},
				organize.Direct{},
				organize.Config{Debounce: debounce, Timeout: timeout},
				logger,
			)

			enc := json.NewEncoder(cmd.OutOrStdout())
			ctrl := organize.NewController(pipeline, func(r organize.Result) {
				if err := enc.Encode(r); err != nil {
					logger.Error("write result", "error", err)
				}
			}, logger)
			defer ctrl.Close()

			var notes strings.Builder
			lines := bufio.NewScanner(cmd.InOrStdin())
			for lines.Scan() {
				if notes.Len() > 0 {
					notes.WriteByte('\n')
				}
				notes.WriteString(lines.Text())
				if len([]rune(notes.String())) > incidents.MaxNotesLength {
					return incidents.ErrNotesTooLong
				}
				ctrl.Update(notes.String())
			}
			if err := lines.Err(); err != nil {
				return fmt.Errorf("read notes: %w", err)
			}
			if strings.TrimSpace(notes.String()) == "" {
				return incidents.ErrEmptyNotes
			}

			ctrl.OrganizeNow(cmd.Context(), notes.String())
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", organize.DefaultDebounce, "pause before the structured parse")
	cmd.Flags().DurationVar(&timeout, "timeout", organize.DefaultTimeout, "parse timeout")
	return cmd
}

func caseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "case <value>",
		Short: "Normalize a case number into its bare and prefixed forms",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			label := scan.FormatCase(strings.Join(args, " "))
			if label.Bare == "" {
				return fmt.Errorf("no case number in %q", strings.Join(args, " "))
			}
			return printJSON(cmd, label)
		},
	}
}

func fingerprintCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "fingerprint [file]",
		Short: "Print the incident key for the notes and event date",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, err := readNotes(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), categories.Fingerprint(notes, date))
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "event date folded into the key")
	return cmd
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the category taxonomy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, group := range categories.Taxonomy() {
				fmt.Fprintln(cmd.OutOrStdout(), group.Name)
				for _, c := range group.Categories {
					fmt.Fprintln(cmd.OutOrStdout(), "  "+c)
				}
			}
			return nil
		},
	}
}
