package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hetulpatel/PitchDeck/internal/app"
	"github.com/hetulpatel/PitchDeck/internal/config"
	"github.com/hetulpatel/PitchDeck/internal/extract"
	kafkautil "github.com/hetulpatel/PitchDeck/internal/kafka"
	"github.com/hetulpatel/PitchDeck/internal/pitch"
	"github.com/hetulpatel/PitchDeck/internal/queue"
	sqlstore "github.com/hetulpatel/PitchDeck/internal/storage/sqlite"
)

func extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file>...",
		Short: "Print the text extracted from each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ex := app.NewExtractor(cfg)
			out := cmd.OutOrStdout()
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				doc := ex.Extract(cmd.Context(), path, mime.TypeByExtension(filepath.Ext(path)), data)
				fmt.Fprintf(out, "=== %s (%s, %d chars", doc.Filename, doc.Kind, len([]rune(doc.Text)))
				if doc.Truncated {
					fmt.Fprint(out, ", truncated")
				}
				if doc.Failed {
					fmt.Fprint(out, ", failed")
				}
				fmt.Fprintln(out, ") ===")
				fmt.Fprintln(out, doc.Text)
			}
			return nil
		},
	}
}

func generateCmd() *cobra.Command {
	var req pitch.Request
	cmd := &cobra.Command{
		Use:   "generate [files...]",
		Short: "Generate a pitch and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			gen, err := app.NewGenerator(cfg)
			if err != nil {
				return err
			}
			ex := app.NewExtractor(cfg)

			req.Normalize()
			if err := req.Validate(); err != nil {
				return err
			}
			ctx := cmd.Context()
			docs := make([]extract.Document, 0, len(args))
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				docs = append(docs, ex.Extract(ctx, path, mime.TypeByExtension(filepath.Ext(path)), data))
			}

			out, err := gen.Generate(ctx, req, docs)
			if err != nil {
				return err
			}
			if out.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", out.Err)
			}
			return printJSON(cmd.OutOrStdout(), out.Pitch)
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.CompanyName, "company", "", "Company name (required)")
	f.StringVar(&req.Industry, "industry", "", "Industry (required)")
	f.StringVar(&req.Problem, "problem", "", "Problem statement (required)")
	f.StringVar(&req.Solution, "solution", "", "Solution (required)")
	f.StringVar(&req.FundingStage, "stage", pitch.DefaultStage, "Funding stage (pre-seed, seed, series-a, series-b)")
	f.StringVar(&req.Traction, "traction", "", "Traction summary")
	f.StringVar(&req.Contact, "contact", "", "Contact line")
	return cmd
}

func runsCmd() *cobra.Command {
	var (
		path  string
		limit int
		reset bool
	)
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent runs from the SQLite run log",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = os.Getenv("SQLITE_PATH")
			}
			if path == "" {
				return errors.New("no run log: pass --db or set SQLITE_PATH")
			}
			store, err := sqlstore.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()
			if reset {
				if err := store.DropTables(cmd.Context()); err != nil {
					return fmt.Errorf("reset run log: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "run log at %s cleared\n", store.Path())
			}
			if err := store.CreateTables(cmd.Context()); err != nil {
				return err
			}
			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CREATED\tCOMPANY\tSTAGE\tFILES\tMETHOD\tDURATION\tERROR")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
					r.CreatedAt.Format(time.RFC3339), r.CompanyName, r.FundingStage, r.FileCount,
					r.Method, r.Duration.Round(time.Millisecond), r.Error)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&path, "db", "", "SQLite path (defaults to SQLITE_PATH)")
	cmd.Flags().IntVar(&limit, "limit", sqlstore.DefaultListLimit, "Maximum runs to list")
	cmd.Flags().BoolVar(&reset, "reset", false, "Drop and recreate the run log before listing")
	return cmd
}

func eventsCmd() *cobra.Command {
	var (
		brokers string
		topic   string
		group   string
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail run events from Kafka",
		RunE: func(cmd *cobra.Command, args []string) error {
			if brokers == "" {
				brokers = os.Getenv("KAFKA_BROKERS")
			}
			reader := kafkautil.NewReader(kafkautil.Brokers(brokers), eventsTopic(topic), group)
			defer reader.Close()

			ctx := cmd.Context()
			for {
				msg, err := reader.ReadMessage(ctx)
				if err != nil {
					if errors.Is(err, context.Canceled) || ctx.Err() != nil {
						return nil
					}
					return fmt.Errorf("read event: %w", err)
				}
				run, err := queue.DecodeRun(msg)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "skip: %v\n", err)
					continue
				}
				if err := printJSON(cmd.OutOrStdout(), run); err != nil {
					return err
				}
			}
		},
	}
	cmd.Flags().StringVar(&brokers, "brokers", "", "Comma-separated brokers (defaults to KAFKA_BROKERS)")
	cmd.Flags().StringVar(&topic, "topic", "", "Events topic (defaults to PITCH_EVENTS_TOPIC, then "+config.DefaultEventsTopic+")")
	cmd.Flags().StringVar(&group, "group", "", "Consumer group; empty tails from the newest offset")
	return cmd
}

func eventsTopic(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv("PITCH_EVENTS_TOPIC"); env != "" {
		return env
	}
	return config.DefaultEventsTopic
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
