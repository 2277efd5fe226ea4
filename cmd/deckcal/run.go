package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/deckcal"
	"github.com/aretw0/deckcal/internal/presentation/tui"
	"github.com/aretw0/deckcal/pkg/calibration"
	"github.com/aretw0/deckcal/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [session-id]",
	Short: "Drive a calibration session interactively",
	Long: `Reads one command per line from stdin and applies it to the session until it exits.
Without a session ID a new session of --workflow is started.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		metrics := observability.NewMetrics("deckcal")
		deck, cfg := mustOpenDeck(cmd, deckcal.WithLifecycleHooks(metrics.Hooks()))
		defer deck.Close()

		if cfg.Metrics.Addr != "" {
			srv := newMetricsServer(cfg.Metrics.Addr, metrics)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					fmt.Printf("Metrics server error: %v\n", err)
				}
			}()
			defer shutdownServer(srv)
		}

		var sessionID string
		if len(args) > 0 {
			sessionID = args[0]
		} else {
			workflow, _ := cmd.Flags().GetString("workflow")
			s, err := deck.StartSession(ctx, calibration.Workflow(workflow))
			if err != nil {
				fmt.Printf("Error starting session: %v\n", err)
				os.Exit(1)
			}
			sessionID = s.ID
		}

		headless, _ := cmd.Flags().GetBool("headless")

		// Configure Runner
		runner := deckcal.NewRunner()
		runner.Input = os.Stdin
		runner.Output = os.Stdout
		runner.Headless = headless || !tui.IsInteractive(os.Stdin)
		if !runner.Headless {
			runner.Renderer = tui.NewRenderer()
			tui.PrintBanner(os.Stdout)
		}

		// Execute
		s, err := runner.Run(ctx, deck, sessionID)
		if err != nil && !errors.Is(err, context.Canceled) {
			fmt.Printf("Error running session: %v\n", err)
			os.Exit(1)
		}
		if s != nil && !runner.Headless {
			fmt.Printf("Session %s finished in %s\n", s.ID, s.State)
		}
	},
}

func init() {
	calibrateCmd.AddCommand(runCmd)
	runCmd.Flags().String("workflow", string(calibration.WorkflowPipetteOffset), "Workflow for a new session")
	runCmd.Flags().Bool("headless", false, "Print bare state names (for scripts)")
}

// newMetricsServer exposes m on /metrics.
func newMetricsServer(addr string, m *observability.Metrics) *http.Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(m)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func shutdownServer(srv *http.Server) {
	// Give outstanding scrapes a deadline for completion.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		_ = srv.Close()
	}
}
