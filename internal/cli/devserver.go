package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ohare93/readhub/internal/hubfake"
	"github.com/ohare93/readhub/internal/logging"
	"github.com/spf13/cobra"
)

var (
	devServerAddr        string
	devServerFailToggles int
	devServerLatency     time.Duration
	devServerToken       string
)

var devServerCmd = &cobra.Command{
	Use:   "dev-server",
	Short: "Run an in-memory hub for offline use and demos",
	Long: `Run an in-memory reading hub seeded with sample papers and articles.

State lives in memory and is lost on exit. Use --latency to make pending
likes visible and --fail-toggles to watch them roll back.

Example:
  readhub dev-server --latency 800ms --fail-toggles 2
  readhub --base-url http://localhost:8787`,
	Args: cobra.NoArgs,
	RunE: runDevServer,
}

func runDevServer(cmd *cobra.Command, args []string) error {
	var opts []hubfake.Option
	if devServerToken != "" {
		opts = append(opts, hubfake.WithToken(devServerToken))
	}
	if devServerLatency > 0 {
		opts = append(opts, hubfake.WithLatency(devServerLatency))
	}
	fake := hubfake.New(opts...)
	if devServerFailToggles > 0 {
		fake.FailToggles(devServerFailToggles)
	}

	logger := logging.New(cmd.ErrOrStderr(), "info")

	listener, err := net.Listen("tcp", devServerAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", devServerAddr, err)
	}

	srv := &http.Server{
		Handler:           fake.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	logger.Info("dev server listening", "addr", listener.Addr().String(),
		"latency", devServerLatency, "fail_toggles", devServerFailToggles)
	fmt.Fprintf(cmd.OutOrStdout(), "Hub running at http://%s (Ctrl+C to stop)\n", listener.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	logger.Info("dev server stopped")
	return nil
}

func init() {
	devServerCmd.Flags().StringVar(&devServerAddr, "addr", "localhost:8787", "Address to listen on")
	devServerCmd.Flags().IntVar(&devServerFailToggles, "fail-toggles", 0, "Fail the next N like/bookmark toggles")
	devServerCmd.Flags().DurationVar(&devServerLatency, "latency", 0, "Delay every response, e.g. 500ms")
	devServerCmd.Flags().StringVar(&devServerToken, "token", "", "Require this bearer token")

	rootCmd.AddCommand(devServerCmd)
}
