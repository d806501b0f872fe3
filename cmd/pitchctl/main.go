package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hetulpatel/PitchDeck/internal/config"
	"github.com/hetulpatel/PitchDeck/internal/logging"
)

func main() {
	config.LoadDotenv()
	logging.InitFromEnv()
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pitchctl",
		Short:         "Inspect and drive the pitch pipeline from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(extractCmd(), generateCmd(), runsCmd(), eventsCmd())
	return cmd
}
